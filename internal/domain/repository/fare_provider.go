package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
)

// FareProvider issues one date-scoped query against the external pricing API.
// It has no error channel on purpose: a failed or non-200 call degrades to
// zero offers for that date rather than failing the whole search window.
type FareProvider interface {
	FetchOneWay(ctx context.Context, origin, destination string, date time.Time, limit int) []entity.FareOffer
}
