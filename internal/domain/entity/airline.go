package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Airline represents an airline entity
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// CarrierDirectory maps airline codes to display names. It is built once at
// startup and read-only afterwards, so it is safe for concurrent use.
type CarrierDirectory struct {
	names map[string]string
}

// NewCarrierDirectory builds a directory from the airline table
func NewCarrierDirectory(airlines []Airline) *CarrierDirectory {
	names := make(map[string]string, len(airlines))
	for _, a := range airlines {
		code := strings.ToUpper(strings.TrimSpace(a.Code))
		if code == "" || a.Name == "" {
			continue
		}
		names[code] = a.Name
	}
	return &CarrierDirectory{names: names}
}

// DisplayName returns the display name for a carrier code, falling back to
// the raw code when the carrier is unknown.
func (d *CarrierDirectory) DisplayName(code string) string {
	if d != nil {
		if name, ok := d.names[strings.ToUpper(strings.TrimSpace(code))]; ok {
			return name
		}
	}
	return code
}
