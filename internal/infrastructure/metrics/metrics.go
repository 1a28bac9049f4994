package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gobooks/internal/domain"
)

// Metrics holds all Prometheus metrics and implements usecase.Metrics.
type Metrics struct {
	// Account metrics
	AccountsRegistered *prometheus.CounterVec

	// Journal metrics
	EntriesRecorded prometheus.Counter
	LinesRecorded   prometheus.Counter
	EntriesRejected *prometheus.CounterVec
	LinesCleared    prometheus.Counter

	// Report metrics
	ReportDuration *prometheus.HistogramVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AccountsRegistered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_accounts_registered_total",
				Help: "Total number of accounts registered by category",
			},
			[]string{"category"},
		),

		EntriesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journal_entries_recorded_total",
			Help: "Total number of journal entries recorded",
		}),
		LinesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journal_lines_recorded_total",
			Help: "Total number of journal lines recorded",
		}),
		EntriesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_journal_entries_rejected_total",
				Help: "Total number of journal entries rejected by reason",
			},
			[]string{"reason"},
		),
		LinesCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journal_lines_cleared_total",
			Help: "Total number of journal lines removed by clears",
		}),

		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobooks_report_duration_seconds",
				Help:    "Duration of report composition",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobooks_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobooks_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// AccountRegistered implements usecase.Metrics.
func (m *Metrics) AccountRegistered(category domain.Category) {
	m.AccountsRegistered.WithLabelValues(string(category)).Inc()
}

// EntryRecorded implements usecase.Metrics.
func (m *Metrics) EntryRecorded(lines int) {
	m.EntriesRecorded.Inc()
	m.LinesRecorded.Add(float64(lines))
}

// EntryRejected implements usecase.Metrics.
func (m *Metrics) EntryRejected(reason string) {
	m.EntriesRejected.WithLabelValues(reason).Inc()
}

// JournalCleared implements usecase.Metrics.
func (m *Metrics) JournalCleared(lines int64) {
	m.LinesCleared.Add(float64(lines))
}

// ReportBuilt implements usecase.Metrics.
func (m *Metrics) ReportBuilt(report string, duration time.Duration) {
	m.ReportDuration.WithLabelValues(report).Observe(duration.Seconds())
}
