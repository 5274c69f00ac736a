package entity

import "time"

// DateLayout is the date-granular format used for anchor and stored dates
const DateLayout = "2006-01-02"

// FareOffer represents one priced one-way fare leg.
// Offers with a missing or non-positive price never reach this type;
// they are discarded when the provider response is decoded.
type FareOffer struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departure_at"`
	Price       float64   `json:"price"`
	Airline     string    `json:"airline"`
	Link        string    `json:"link,omitempty"`
}

// DepartureDate returns the departure timestamp truncated to date granularity
func (o FareOffer) DepartureDate() time.Time {
	return time.Date(o.DepartureAt.Year(), o.DepartureAt.Month(), o.DepartureAt.Day(), 0, 0, 0, 0, time.UTC)
}

// RoundTripOffer represents a matched outbound/inbound pair.
// TotalPrice already includes the passenger count.
type RoundTripOffer struct {
	Outbound   FareOffer `json:"outbound"`
	Inbound    FareOffer `json:"inbound"`
	TotalPrice int64     `json:"total_price"`
}

// StayLength returns the number of days between the outbound and inbound
// departure dates. Every offer produced by a fixed-stay search has the same
// stay length as the request that produced it.
func (r RoundTripOffer) StayLength() int {
	return DaysBetween(r.Outbound.DepartureDate(), r.Inbound.DepartureDate())
}

// DaysBetween returns the whole number of days from a to b at date granularity
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
