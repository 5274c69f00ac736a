package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"column:code;unique"`
	Name      string `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

func airlineToEntity(row *Airlines) *entity.Airline {
	return &entity.Airline{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		DeletedAt: row.DeletedAt,
	}
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Unscoped().Where("code = ?", code).First(&airline)
	if result.Error != nil {
		return nil, result.Error
	}
	return airlineToEntity(&airline), nil
}

// ListAll returns every airline; used to build the carrier directory at startup
func (r *GormAirlineRepository) ListAll(ctx context.Context) ([]entity.Airline, error) {
	var rows []Airlines
	result := r.db.WithContext(ctx).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	airlines := make([]entity.Airline, 0, len(rows))
	for i := range rows {
		airlines = append(airlines, *airlineToEntity(&rows[i]))
	}
	return airlines, nil
}
