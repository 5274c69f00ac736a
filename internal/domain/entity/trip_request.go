// internal/domain/entity/trip_request.go
package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	compactDateLayout = "20060102"
	watchTokenPrefix  = "w"
	watchTokenFields  = 6
)

// ErrInvalidWatchToken is returned when a watch token cannot be decoded
var ErrInvalidWatchToken = errors.New("invalid watch token")

// TripQuery is a fully collected trip request: the front end only hands the
// core complete, validated queries, never partially filled state.
type TripQuery struct {
	Origin      string
	Destination string
	DepartDate  time.Time
	ReturnDate  *time.Time // nil for a one-way trip
	Passengers  int
}

// RoundTrip reports whether the query has a return leg
func (q TripQuery) RoundTrip() bool {
	return q.ReturnDate != nil
}

// StayLength returns the days between departure and return, or 0 for one-way
func (q TripQuery) StayLength() int {
	if q.ReturnDate == nil {
		return 0
	}
	return DaysBetween(q.DepartDate, *q.ReturnDate)
}

// Validate checks the well-formedness guarantees the dialog front end makes:
// 3-letter location codes, 1-9 passengers, return strictly after departure.
func (q TripQuery) Validate() error {
	if !isLocationCode(q.Origin) {
		return fmt.Errorf("origin must be a 3-letter code, got %q", q.Origin)
	}
	if !isLocationCode(q.Destination) {
		return fmt.Errorf("destination must be a 3-letter code, got %q", q.Destination)
	}
	if q.DepartDate.IsZero() {
		return errors.New("depart date is required")
	}
	if q.Passengers < 1 || q.Passengers > 9 {
		return fmt.Errorf("passengers must be between 1 and 9, got %d", q.Passengers)
	}
	if q.ReturnDate != nil && q.StayLength() <= 0 {
		return errors.New("return date must be after depart date")
	}
	return nil
}

func isLocationCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// EncodeWatchToken packs a trip query into a compact token the front end can
// round-trip through a confirmation step: w:ORIGIN:DEST:YYYYMMDD:YYYYMMDD:N,
// with "0" standing in for the return date on one-way trips.
func EncodeWatchToken(q TripQuery) string {
	returnField := "0"
	if q.ReturnDate != nil {
		returnField = q.ReturnDate.Format(compactDateLayout)
	}
	return strings.Join([]string{
		watchTokenPrefix,
		strings.ToUpper(q.Origin),
		strings.ToUpper(q.Destination),
		q.DepartDate.Format(compactDateLayout),
		returnField,
		strconv.Itoa(q.Passengers),
	}, ":")
}

// ParseWatchToken decodes a token produced by EncodeWatchToken. A malformed
// token yields ErrInvalidWatchToken, never a partially filled query.
func ParseWatchToken(token string) (TripQuery, error) {
	parts := strings.Split(token, ":")
	if len(parts) != watchTokenFields || parts[0] != watchTokenPrefix {
		return TripQuery{}, ErrInvalidWatchToken
	}

	depart, err := time.Parse(compactDateLayout, parts[3])
	if err != nil {
		return TripQuery{}, fmt.Errorf("%w: bad depart date %q", ErrInvalidWatchToken, parts[3])
	}

	var returnDate *time.Time
	if parts[4] != "0" {
		ret, err := time.Parse(compactDateLayout, parts[4])
		if err != nil {
			return TripQuery{}, fmt.Errorf("%w: bad return date %q", ErrInvalidWatchToken, parts[4])
		}
		returnDate = &ret
	}

	passengers, err := strconv.Atoi(parts[5])
	if err != nil {
		return TripQuery{}, fmt.Errorf("%w: bad passenger count %q", ErrInvalidWatchToken, parts[5])
	}

	q := TripQuery{
		Origin:      parts[1],
		Destination: parts[2],
		DepartDate:  depart,
		ReturnDate:  returnDate,
		Passengers:  passengers,
	}
	if err := q.Validate(); err != nil {
		return TripQuery{}, fmt.Errorf("%w: %v", ErrInvalidWatchToken, err)
	}
	return q, nil
}
