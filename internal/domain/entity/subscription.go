// internal/domain/entity/subscription.go
package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Subscription represents a persisted price watch
type Subscription struct {
	ID                uint
	UserID            int64
	Origin            string
	Destination       string
	DepartDate        string  // YYYY-MM-DD, required
	ReturnDate        *string // nil or "0" signals a one-way watch
	Passengers        int
	Threshold         *int64 // nil until first set
	ThresholdIsManual bool   // manual thresholds stay fixed; dynamic ones ratchet down
	LastNotifiedPrice *int64
	LastNotifiedAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt
}

// PassengerCount returns the passenger count clamped to at least 1
func (s *Subscription) PassengerCount() int {
	if s.Passengers < 1 {
		return 1
	}
	return s.Passengers
}

// ThresholdValue returns the stored threshold, or 0 when none has been set.
// A zero threshold can never match a positive best price, so an unset
// threshold silently suppresses notifications.
func (s *Subscription) ThresholdValue() int64 {
	if s.Threshold == nil {
		return 0
	}
	return *s.Threshold
}

// ParseStoredDate parses a date persisted on a subscription row. Rows written
// by older revisions carry bare dates, compact dates or placeholder strings,
// so the parser tolerates all of them and reports absence instead of failing.
func ParseStoredDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "0", "none", "null", "false":
		return time.Time{}, false
	}

	// Drop any time-of-day part
	if idx := strings.IndexAny(v, " T"); idx > 0 {
		v = v[:idx]
	}

	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, true
	}
	if len(v) == 8 {
		if t, err := time.Parse("20060102", v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
