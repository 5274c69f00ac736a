package repository

import (
	"context"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormSubscriptionRepository implements the SubscriptionRepository interface
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GORM subscription repository
func NewGormSubscriptionRepository(db *gorm.DB) repository.SubscriptionRepository {
	return &GormSubscriptionRepository{
		db: db,
	}
}

// Subscriptions GORM model for database mapping
type Subscriptions struct {
	ID                uint   `gorm:"primaryKey"`
	UserID            int64  `gorm:"column:user_id;index"`
	Origin            string `gorm:"column:origin"`
	Destination       string `gorm:"column:destination"`
	DepartDate        string `gorm:"column:depart_date"`
	ReturnDate        *string
	Passengers        int
	Threshold         *int64
	ThresholdIsManual bool `gorm:"column:threshold_is_manual"`
	LastNotifiedPrice *int64
	LastNotifiedAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name
func (Subscriptions) TableName() string {
	return "subscriptions"
}

func toEntity(row *Subscriptions) *entity.Subscription {
	return &entity.Subscription{
		ID:                row.ID,
		UserID:            row.UserID,
		Origin:            row.Origin,
		Destination:       row.Destination,
		DepartDate:        row.DepartDate,
		ReturnDate:        row.ReturnDate,
		Passengers:        row.Passengers,
		Threshold:         row.Threshold,
		ThresholdIsManual: row.ThresholdIsManual,
		LastNotifiedPrice: row.LastNotifiedPrice,
		LastNotifiedAt:    row.LastNotifiedAt,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		DeletedAt:         row.DeletedAt,
	}
}

// Create inserts a new subscription and returns its id
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) (uint, error) {
	row := Subscriptions{
		UserID:            sub.UserID,
		Origin:            sub.Origin,
		Destination:       sub.Destination,
		DepartDate:        sub.DepartDate,
		ReturnDate:        sub.ReturnDate,
		Passengers:        sub.PassengerCount(),
		Threshold:         sub.Threshold,
		ThresholdIsManual: sub.ThresholdIsManual,
	}

	result := r.db.WithContext(ctx).Create(&row)
	if result.Error != nil {
		return 0, fmt.Errorf("insert subscription: %w", result.Error)
	}
	return row.ID, nil
}

// GetByID finds a subscription by id
func (r *GormSubscriptionRepository) GetByID(ctx context.Context, id uint) (*entity.Subscription, error) {
	var row Subscriptions
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntity(&row), nil
}

// ListByUser returns all subscriptions for a user
func (r *GormSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Subscription, error) {
	var rows []Subscriptions
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("list subscriptions by user: %w", result.Error)
	}

	subs := make([]entity.Subscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, *toEntity(&rows[i]))
	}
	return subs, nil
}

// ListAll returns a snapshot of every stored subscription
func (r *GormSubscriptionRepository) ListAll(ctx context.Context) ([]entity.Subscription, error) {
	var rows []Subscriptions
	result := r.db.WithContext(ctx).Order("id").Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("list subscriptions: %w", result.Error)
	}

	subs := make([]entity.Subscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, *toEntity(&rows[i]))
	}
	return subs, nil
}

// UpdateThreshold sets a new threshold value and mode for a subscription
func (r *GormSubscriptionRepository) UpdateThreshold(ctx context.Context, id uint, price int64, isManual bool) error {
	result := r.db.WithContext(ctx).Model(&Subscriptions{}).Where("id = ?", id).Updates(map[string]interface{}{
		"threshold":           price,
		"threshold_is_manual": isManual,
	})
	if result.Error != nil {
		return fmt.Errorf("update threshold: %w", result.Error)
	}
	return nil
}

// RecordNotification persists the last notified price and timestamp
func (r *GormSubscriptionRepository) RecordNotification(ctx context.Context, id uint, price int64, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&Subscriptions{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_notified_price": price,
		"last_notified_at":    at,
	})
	if result.Error != nil {
		return fmt.Errorf("record notification: %w", result.Error)
	}
	return nil
}

// Delete removes a subscription
func (r *GormSubscriptionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Subscriptions{})
	if result.Error != nil {
		return fmt.Errorf("delete subscription: %w", result.Error)
	}
	return nil
}
