package usecase

import (
	"context"
	"sort"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"
)

// SearchEngine expands a sparse date anchor into a window of per-date fare
// queries and, for round trips, pairs outbound and inbound legs under a
// fixed stay length.
type SearchEngine struct {
	provider     repository.FareProvider
	metrics      *metrics.Metrics
	logger       logger.Logger
	limitPerDate int
}

// NewSearchEngine creates a new search engine
func NewSearchEngine(provider repository.FareProvider, limitPerDate int, m *metrics.Metrics, log logger.Logger) *SearchEngine {
	if limitPerDate < 1 {
		limitPerDate = 10
	}
	return &SearchEngine{
		provider:     provider,
		metrics:      m,
		logger:       log,
		limitPerDate: limitPerDate,
	}
}

// WindowAround expands an anchor date into the [-flex, +flex] day window
// at date granularity
func WindowAround(anchor time.Time, flex int) []time.Time {
	if flex < 0 {
		flex = 0
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, 2*flex+1)
	for shift := -flex; shift <= flex; shift++ {
		dates = append(dates, anchor.AddDate(0, 0, shift))
	}
	return dates
}

// SearchDatesWindow queries one-way fares for every candidate date
// concurrently, merges the results, drops non-positive prices and returns
// them sorted ascending by price. Ties keep their arrival order.
func (s *SearchEngine) SearchDatesWindow(ctx context.Context, origin, destination string, dates []time.Time, limitPerDate int) []entity.FareOffer {
	if len(dates) == 0 {
		return nil
	}

	s.metrics.SearchesTotal.Inc()

	resCh := make(chan []entity.FareOffer, len(dates))
	for _, d := range dates {
		date := d
		go func() {
			resCh <- s.provider.FetchOneWay(ctx, origin, destination, date, limitPerDate)
		}()
	}

	offers := make([]entity.FareOffer, 0, len(dates)*limitPerDate)
	for i := 0; i < len(dates); i++ {
		for _, offer := range <-resCh {
			if offer.Price <= 0 {
				continue
			}
			offers = append(offers, offer)
		}
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})

	s.metrics.OffersReturned.Add(float64(len(offers)))
	s.logger.Debug("Window search finished",
		"origin", origin, "destination", destination,
		"dates", len(dates), "offers", len(offers))

	return offers
}

// SearchRoundTripFixedStay searches outbound dates in a flex window around
// the depart anchor and pairs each outbound offer with inbound offers landing
// exactly stay-length days later. The stay length is held invariant across
// the window: shifting the outbound date shifts the required return date by
// the same amount, so return dates are derived rather than flexed on their
// own. A non-positive stay length returns nothing without touching the
// network.
func (s *SearchEngine) SearchRoundTripFixedStay(ctx context.Context, origin, destination string, departAnchor, returnAnchor time.Time, flexDays, passengers, limit int) []entity.RoundTripOffer {
	stayLength := entity.DaysBetween(departAnchor, returnAnchor)
	if stayLength <= 0 {
		s.logger.Warn("Rejecting round trip search with non-positive stay length",
			"origin", origin, "destination", destination, "stayLength", stayLength)
		return nil
	}
	if passengers < 1 {
		passengers = 1
	}

	// Outbound candidates, minus dates already in the past
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	outboundDates := make([]time.Time, 0, 2*flexDays+1)
	for _, d := range WindowAround(departAnchor, flexDays) {
		if d.Before(today) {
			continue
		}
		outboundDates = append(outboundDates, d)
	}
	if len(outboundDates) == 0 {
		return nil
	}

	returnDates := make([]time.Time, len(outboundDates))
	for i, d := range outboundDates {
		returnDates[i] = d.AddDate(0, 0, stayLength)
	}

	outbound := s.SearchDatesWindow(ctx, origin, destination, outboundDates, s.limitPerDate)
	inbound := s.SearchDatesWindow(ctx, destination, origin, returnDates, s.limitPerDate)

	inboundByDate := make(map[string][]entity.FareOffer, len(returnDates))
	for _, offer := range inbound {
		key := offer.DepartureDate().Format(entity.DateLayout)
		inboundByDate[key] = append(inboundByDate[key], offer)
	}

	pairs := make([]entity.RoundTripOffer, 0, limit)
	for _, out := range outbound {
		requiredReturn := out.DepartureDate().AddDate(0, 0, stayLength).Format(entity.DateLayout)
		for _, in := range inboundByDate[requiredReturn] {
			pairs = append(pairs, entity.RoundTripOffer{
				Outbound:   out,
				Inbound:    in,
				TotalPrice: int64((out.Price + in.Price) * float64(passengers)),
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].TotalPrice < pairs[j].TotalPrice
	})

	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	s.logger.Debug("Round trip search finished",
		"origin", origin, "destination", destination,
		"stayLength", stayLength, "pairs", len(pairs))

	return pairs
}
