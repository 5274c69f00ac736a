package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
)

// SubscriptionRepository defines the interface for price watch persistence
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) (uint, error)
	GetByID(ctx context.Context, id uint) (*entity.Subscription, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Subscription, error)
	ListAll(ctx context.Context) ([]entity.Subscription, error)
	UpdateThreshold(ctx context.Context, id uint, price int64, isManual bool) error
	RecordNotification(ctx context.Context, id uint, price int64, at time.Time) error
	Delete(ctx context.Context, id uint) error
}
