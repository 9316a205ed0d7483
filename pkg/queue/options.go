package queue

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

type options struct {
	maxConcurrent     int
	waitBetween       time.Duration
	rescanOnReconnect bool
	loadTimeout       time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
	clock             clockwork.Clock
	codec             Codec
	metrics           *Metrics
}

func defaultOptions() *options {
	cfg := DefaultConfig()
	return &options{
		loadTimeout:     cfg.LoadTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          slog.Default(),
		clock:           clockwork.NewRealClock(),
		codec:           JSONCodec{},
	}
}

// Option configures a Scheduler.
type Option func(*options)

// WithConfig applies settings loaded from the environment.
// Options listed after it take precedence.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		WithMaxConcurrentOperations(cfg.MaxConcurrentOperations)(o)
		WithWaitTimeBetweenOperations(cfg.WaitBetweenOperations)(o)
		WithRescanOnReconnect(cfg.RescanOnReconnect)(o)
		if cfg.LoadTimeout > 0 {
			o.loadTimeout = cfg.LoadTimeout
		}
		if cfg.ShutdownTimeout > 0 {
			o.shutdownTimeout = cfg.ShutdownTimeout
		}
	}
}

// WithMaxConcurrentOperations bounds the number of operations in flight.
// Zero means unbounded; negative values are ignored.
func WithMaxConcurrentOperations(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxConcurrent = n
		}
	}
}

// WithWaitTimeBetweenOperations paces dispatch: each scan prepares one
// operation and dispatches it after d. Negative values are ignored.
func WithWaitTimeBetweenOperations(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.waitBetween = d
		}
	}
}

// WithRescanOnReconnect makes the scheduler scan the queue whenever the
// monitor reports a transition from unreachable to reachable.
func WithRescanOnReconnect(enabled bool) Option {
	return func(o *options) {
		o.rescanOnReconnect = enabled
	}
}

// WithLogger sets the logger for the scheduler.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces the clock driving waits and retry delays.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithCodec replaces the JSON codec used for persistence.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithMetrics enables Prometheus metrics for the scheduler.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLoadTimeout bounds the initial storage load in New.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

// WithShutdownTimeout bounds the final save performed by Run.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}
