package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal     prometheus.Counter
	OffersReturned    prometheus.Counter
	ScanCycles        prometheus.Counter
	ScanDuration      prometheus.Histogram
	NotificationsSent prometheus.Counter
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of windowed fare searches issued",
		}),
		OffersReturned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_returned_total",
			Help:      "The total number of fare offers returned by searches",
		}),
		ScanCycles: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_cycles_total",
			Help:      "The total number of completed subscription scan cycles",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_cycle_duration_seconds",
			Help:      "Time taken to scan all subscriptions once",
			Buckets:   prometheus.DefBuckets,
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of price drop notifications delivered",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
