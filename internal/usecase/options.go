package usecase

import (
	"time"

	"github.com/rs/zerolog"
)

// BalancePolicy controls how RecordEntry treats entries whose debits and
// credits differ.
type BalancePolicy string

const (
	// BalancePolicyStrict rejects unbalanced entries.
	BalancePolicyStrict BalancePolicy = "strict"
	// BalancePolicyWarn logs unbalanced entries and records them anyway.
	BalancePolicyWarn BalancePolicy = "warn"
)

const (
	defaultReportConcurrency = 8
	defaultReportCacheTTL    = 5 * time.Minute
)

// Option configures optional collaborators of the use cases.
type Option func(*options)

type options struct {
	logger            zerolog.Logger
	metrics           Metrics
	cache             ReportCache
	cacheTTL          time.Duration
	retrier           Retrier
	reportConcurrency int
	balancePolicy     BalancePolicy
}

func newOptions(opts []Option) options {
	o := options{
		logger:            zerolog.Nop(),
		metrics:           noopMetrics{},
		cacheTTL:          defaultReportCacheTTL,
		reportConcurrency: defaultReportConcurrency,
		balancePolicy:     BalancePolicyStrict,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithReportCache enables report caching. Writers invalidate the cache.
func WithReportCache(cache ReportCache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = cache
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithRetrier retries journal writes on transient store errors.
func WithRetrier(r Retrier) Option {
	return func(o *options) { o.retrier = r }
}

// WithReportConcurrency bounds the per-account queries a report issues at once.
func WithReportConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.reportConcurrency = n
		}
	}
}

// WithBalancePolicy sets how unbalanced entries are handled.
func WithBalancePolicy(p BalancePolicy) Option {
	return func(o *options) {
		if p != "" {
			o.balancePolicy = p
		}
	}
}
