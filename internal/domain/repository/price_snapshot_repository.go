package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// PriceSnapshotRepository defines the interface for scan price history
type PriceSnapshotRepository interface {
	Insert(ctx context.Context, snapshot *entity.PriceSnapshot) error
	ListBySubscription(ctx context.Context, subscriptionID uint, limit int) ([]entity.PriceSnapshot, error)
}
