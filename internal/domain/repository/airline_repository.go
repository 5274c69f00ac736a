package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// AirlineRepository defines the interface for airline operations
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	ListAll(ctx context.Context) ([]entity.Airline, error)
}
