package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	attempts      *prometheus.CounterVec
	backoff       prometheus.Histogram
	exhausted     *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
	eventsDropped *prometheus.CounterVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketengine_upstream_attempts_total",
				Help: "Upstream fetch attempts by provider and result",
			},
			[]string{"provider", "result"},
		),
		backoff: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marketengine_retry_backoff_seconds",
				Help:    "Backoff sleeps between upstream attempts",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
		),
		exhausted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketengine_retry_exhausted_total",
				Help: "Fetches that ended without data, by outcome",
			},
			[]string{"outcome"},
		),
		lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketengine_lookups_total",
				Help: "Price lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketengine_last_price",
				Help: "Last served price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketengine_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		eventsDropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketengine_events_dropped_total",
				Help: "Lookup events that could not be delivered",
			},
			[]string{"backend"},
		),
	}
}

// RecordAttempt counts one upstream call.
func (r *Recorder) RecordAttempt(provider, result string) {
	r.attempts.WithLabelValues(provider, result).Inc()
}

// RecordBackoff observes a backoff sleep.
func (r *Recorder) RecordBackoff(seconds float64) {
	r.backoff.Observe(seconds)
}

func (r *Recorder) RecordExhausted(kind string) {
	r.exhausted.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLookup(kind, result string) {
	r.lookups.WithLabelValues(kind, result).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordEventDropped(backend string) {
	r.eventsDropped.WithLabelValues(backend).Inc()
}

// Nop discards everything. Useful in tests and when metrics are disabled.
type Nop struct{}

func (Nop) RecordAttempt(string, string) {}
func (Nop) RecordBackoff(float64) {}
func (Nop) RecordExhausted(string) {}
func (Nop) RecordLookup(string, string) {}
func (Nop) RecordLastPrice(string, float64) {}
func (Nop) RecordLatency(string, float64) {}
func (Nop) RecordEventDropped(string) {}
