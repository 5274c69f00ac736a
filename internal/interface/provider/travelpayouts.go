package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// TravelpayoutsProvider fetches one-way fares from the Travelpayouts
// prices_for_dates endpoint
type TravelpayoutsProvider struct {
	logger   logger.Logger
	baseURL  string
	token    string
	currency string
	client   *http.Client
}

// NewTravelpayoutsProvider creates a new Travelpayouts fare provider
func NewTravelpayoutsProvider(baseURL, token, currency string, log logger.Logger) repository.FareProvider {
	return &TravelpayoutsProvider{
		logger:   log,
		baseURL:  baseURL,
		token:    token,
		currency: currency,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// fareRecord mirrors one entry of the prices_for_dates "data" array
type fareRecord struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DepartureAt string  `json:"departure_at"`
	Price       float64 `json:"price"`
	Airline     string  `json:"airline"`
	Link        string  `json:"link"`
}

// FetchOneWay queries fares for a single date. Transport failures, non-200
// responses and undecodable bodies all degrade to an empty result; offers
// with a missing or non-positive price are dropped and the remainder is
// sorted ascending by price.
func (p *TravelpayoutsProvider) FetchOneWay(ctx context.Context, origin, destination string, date time.Time, limit int) []entity.FareOffer {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("departure_at", date.Format(entity.DateLayout))
	params.Set("currency", p.currency)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("one_way", "true")
	params.Set("token", p.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		p.logger.Error("Failed to build fare request", "origin", origin, "destination", destination, "error", err)
		return nil
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("Fare request failed", "origin", origin, "destination", destination, "date", date.Format(entity.DateLayout), "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("Fare API returned non-200 status", "status", resp.StatusCode, "origin", origin, "destination", destination, "date", date.Format(entity.DateLayout))
		return nil
	}

	var body struct {
		Data []fareRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.logger.Warn("Failed to decode fare response", "origin", origin, "destination", destination, "error", err)
		return nil
	}

	offers := make([]entity.FareOffer, 0, len(body.Data))
	for _, rec := range body.Data {
		if rec.Price <= 0 {
			continue
		}
		departureAt, ok := parseDepartureAt(rec.DepartureAt)
		if !ok {
			p.logger.Debug("Skipping offer with unparseable departure time", "departureAt", rec.DepartureAt)
			continue
		}
		offers = append(offers, entity.FareOffer{
			Origin:      rec.Origin,
			Destination: rec.Destination,
			DepartureAt: departureAt,
			Price:       rec.Price,
			Airline:     rec.Airline,
			Link:        rec.Link,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})

	return offers
}

// parseDepartureAt handles both full timestamps and bare dates
func parseDepartureAt(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(entity.DateLayout, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
