package usecase

import (
	"context"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"
	"farewatch-service/templates"
)

// ScanOutcome classifies what happened to one subscription during a scan
type ScanOutcome int

const (
	// ScanNotified means a price drop notification was delivered
	ScanNotified ScanOutcome = iota
	// ScanAboveThreshold means the best price did not reach the threshold
	ScanAboveThreshold
	// ScanAlreadyNotified means the best price equals the last notified one
	ScanAlreadyNotified
	// ScanPrimed means a dynamic watch got its baseline threshold set
	ScanPrimed
	// ScanNoOffers means the search window yielded nothing
	ScanNoOffers
	// ScanSkipped means the stored row could not be used this cycle
	ScanSkipped
	// ScanFailed means a side effect (notify/persist) errored
	ScanFailed
)

// String returns a log-friendly outcome label
func (o ScanOutcome) String() string {
	switch o {
	case ScanNotified:
		return "notified"
	case ScanAboveThreshold:
		return "above_threshold"
	case ScanAlreadyNotified:
		return "already_notified"
	case ScanPrimed:
		return "primed"
	case ScanNoOffers:
		return "no_offers"
	case ScanSkipped:
		return "skipped"
	case ScanFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScanResult is the explicit per-subscription outcome a scan produces;
// control flow and logging key off it instead of recovered panics.
type ScanResult struct {
	Outcome   ScanOutcome
	BestPrice int64
	Err       error
}

// PriceWatcherConfig carries the watcher's timing and search settings
type PriceWatcherConfig struct {
	ScanInterval   time.Duration
	ScanBackoff    time.Duration
	SubDelay       time.Duration
	FlexDays       int
	RoundTripLimit int
	Currency       string
}

// PriceWatcher periodically re-evaluates every stored subscription against
// fresh search results and notifies users about price drops
type PriceWatcher struct {
	subs      repository.SubscriptionRepository
	snapshots repository.PriceSnapshotRepository
	notifier  repository.Notifier
	engine    *SearchEngine
	carriers  *entity.CarrierDirectory
	metrics   *metrics.Metrics
	logger    logger.Logger
	cfg       PriceWatcherConfig
}

// NewPriceWatcher creates a new price watcher
func NewPriceWatcher(
	subs repository.SubscriptionRepository,
	snapshots repository.PriceSnapshotRepository,
	notifier repository.Notifier,
	engine *SearchEngine,
	carriers *entity.CarrierDirectory,
	m *metrics.Metrics,
	log logger.Logger,
	cfg PriceWatcherConfig,
) *PriceWatcher {
	if cfg.RoundTripLimit < 1 {
		cfg.RoundTripLimit = 5
	}
	return &PriceWatcher{
		subs:      subs,
		snapshots: snapshots,
		notifier:  notifier,
		engine:    engine,
		carriers:  carriers,
		metrics:   m,
		logger:    log,
		cfg:       cfg,
	}
}

// Run drives the repeating scan loop until the context is cancelled. A failed
// cycle triggers a backoff sleep instead of stopping the loop; the watcher
// only exits with the process.
func (w *PriceWatcher) Run(ctx context.Context) {
	w.logger.Info("Price watcher started", "interval", w.cfg.ScanInterval)

	for {
		if err := w.ScanOnce(ctx); err != nil {
			w.logger.Error("Scan cycle failed, backing off", "error", err, "backoff", w.cfg.ScanBackoff)
			w.metrics.ErrorsCount.WithLabelValues("scan_cycle").Inc()
			if !sleepCtx(ctx, w.cfg.ScanBackoff) {
				w.logger.Info("Price watcher stopped")
				return
			}
			continue
		}

		if !sleepCtx(ctx, w.cfg.ScanInterval) {
			w.logger.Info("Price watcher stopped")
			return
		}
	}
}

// ScanOnce loads a snapshot of all subscriptions and processes them
// sequentially, with a small delay between them to respect upstream rate
// limits. One bad subscription never aborts the cycle.
func (w *PriceWatcher) ScanOnce(ctx context.Context) error {
	start := time.Now()
	w.logger.Info("Starting subscription scan")

	subs, err := w.subs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		w.logger.Info("No subscriptions to scan")
	}

	for i := range subs {
		sub := &subs[i]
		res := w.ProcessSubscription(ctx, sub)

		log := w.logger.With("subscriptionId", sub.ID, "origin", sub.Origin, "destination", sub.Destination)
		switch res.Outcome {
		case ScanNotified:
			log.Info("Notification sent", "price", res.BestPrice, "threshold", sub.ThresholdValue())
		case ScanAboveThreshold:
			log.Info("Best price above threshold", "price", res.BestPrice, "threshold", sub.ThresholdValue())
		case ScanAlreadyNotified:
			log.Info("Price already reported", "price", res.BestPrice)
		case ScanPrimed:
			log.Info("Dynamic threshold primed", "price", res.BestPrice)
		case ScanNoOffers:
			log.Info("No offers found for watch window")
		case ScanSkipped:
			log.Warn("Subscription skipped", "departDate", sub.DepartDate)
		case ScanFailed:
			log.Error("Subscription processing failed", "error", res.Err)
			w.metrics.ErrorsCount.WithLabelValues("process_subscription").Inc()
		}

		if i < len(subs)-1 {
			if !sleepCtx(ctx, w.cfg.SubDelay) {
				return nil
			}
		}
	}

	w.metrics.ScanCycles.Inc()
	w.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	w.logger.Info("Subscription scan finished", "subscriptions", len(subs), "took", time.Since(start))
	return nil
}

// ProcessSubscription re-runs the search for one subscription and applies the
// notification rules: notify iff the best price is at or below the threshold
// and differs from the last notified price; dynamic thresholds ratchet down
// to the notified price afterwards.
func (w *PriceWatcher) ProcessSubscription(ctx context.Context, sub *entity.Subscription) ScanResult {
	depart, ok := entity.ParseStoredDate(sub.DepartDate)
	if !ok {
		return ScanResult{Outcome: ScanSkipped}
	}

	passengers := sub.PassengerCount()

	var (
		best       int64
		offersSeen int
		text       string
	)

	returnDate := ""
	if sub.ReturnDate != nil {
		returnDate = *sub.ReturnDate
	}

	if ret, roundTrip := entity.ParseStoredDate(returnDate); roundTrip {
		offers := w.engine.SearchRoundTripFixedStay(ctx, sub.Origin, sub.Destination, depart, ret, w.cfg.FlexDays, passengers, w.cfg.RoundTripLimit)
		if len(offers) == 0 {
			return ScanResult{Outcome: ScanNoOffers}
		}
		bestOffer := offers[0]
		best = bestOffer.TotalPrice
		offersSeen = len(offers)
		text = templates.RoundTripAlert(bestOffer, w.carriers.DisplayName(bestOffer.Outbound.Airline), w.cfg.FlexDays, sub.ThresholdValue(), w.cfg.Currency)
	} else {
		offers := w.engine.SearchDatesWindow(ctx, sub.Origin, sub.Destination, WindowAround(depart, w.cfg.FlexDays), w.cfg.RoundTripLimit)
		if len(offers) == 0 {
			return ScanResult{Outcome: ScanNoOffers}
		}
		bestOffer := offers[0]
		best = int64(bestOffer.Price * float64(passengers))
		offersSeen = len(offers)
		text = templates.OneWayAlert(bestOffer, best, w.carriers.DisplayName(bestOffer.Airline), w.cfg.FlexDays, sub.ThresholdValue(), w.cfg.Currency)
	}

	w.recordSnapshot(ctx, sub, best, offersSeen)

	// A dynamic watch created without a threshold gets its baseline from the
	// first scan that finds a price; notifications start with the next drop.
	if sub.Threshold == nil && !sub.ThresholdIsManual {
		if err := w.subs.UpdateThreshold(ctx, sub.ID, best, false); err != nil {
			return ScanResult{Outcome: ScanFailed, BestPrice: best, Err: fmt.Errorf("prime threshold: %w", err)}
		}
		return ScanResult{Outcome: ScanPrimed, BestPrice: best}
	}

	if best > sub.ThresholdValue() {
		return ScanResult{Outcome: ScanAboveThreshold, BestPrice: best}
	}
	if sub.LastNotifiedPrice != nil && *sub.LastNotifiedPrice == best {
		return ScanResult{Outcome: ScanAlreadyNotified, BestPrice: best}
	}

	if err := w.notifier.Send(ctx, sub.UserID, text); err != nil {
		return ScanResult{Outcome: ScanFailed, BestPrice: best, Err: fmt.Errorf("send notification: %w", err)}
	}
	w.metrics.NotificationsSent.Inc()

	if err := w.subs.RecordNotification(ctx, sub.ID, best, time.Now()); err != nil {
		return ScanResult{Outcome: ScanFailed, BestPrice: best, Err: fmt.Errorf("record notification: %w", err)}
	}

	if !sub.ThresholdIsManual {
		if err := w.subs.UpdateThreshold(ctx, sub.ID, best, false); err != nil {
			return ScanResult{Outcome: ScanFailed, BestPrice: best, Err: fmt.Errorf("ratchet threshold: %w", err)}
		}
	}

	return ScanResult{Outcome: ScanNotified, BestPrice: best}
}

func (w *PriceWatcher) recordSnapshot(ctx context.Context, sub *entity.Subscription, best int64, offersSeen int) {
	returnDate := ""
	if sub.ReturnDate != nil {
		returnDate = *sub.ReturnDate
	}
	snapshot := &entity.PriceSnapshot{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Origin:         sub.Origin,
		Destination:    sub.Destination,
		DepartDate:     sub.DepartDate,
		ReturnDate:     returnDate,
		BestPrice:      best,
		OffersSeen:     offersSeen,
		FoundAt:        time.Now(),
	}
	if err := w.snapshots.Insert(ctx, snapshot); err != nil {
		// History is best effort; a failed insert never blocks the scan
		w.logger.Warn("Failed to record price snapshot", "subscriptionId", sub.ID, "error", err)
	}
}

// sleepCtx sleeps for d unless the context is cancelled first; it reports
// whether the full sleep completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
