package checkpoint

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/offlineq/pkg/logger"
)

// Saver persists state. *queue.Scheduler implements it.
type Saver interface {
	Save(ctx context.Context) error
}

// Option configures a Checkpointer.
type Option func(*Checkpointer)

// WithLogger sets the logger for the checkpointer.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checkpointer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSaveTimeout bounds each periodic save. Defaults to 10s.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *Checkpointer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock replaces the clock driving the schedule.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Checkpointer) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithConfig applies SaveTimeout from cfg. The interval is passed to New.
func WithConfig(cfg Config) Option {
	return WithSaveTimeout(cfg.SaveTimeout)
}

// Checkpointer runs Save on a fixed interval.
type Checkpointer struct {
	saver    Saver
	interval time.Duration
	timeout  time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler gocron.Scheduler
	stopped   bool

	saves    atomic.Int64
	failures atomic.Int64
}

// New creates a checkpointer. Nothing runs until Start.
func New(saver Saver, interval time.Duration, opts ...Option) (*Checkpointer, error) {
	if saver == nil {
		return nil, ErrSaverNil
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	c := &Checkpointer{
		saver:    saver,
		interval: interval,
		timeout:  10 * time.Second,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("checkpoint"))

	return c, nil
}

// Start schedules the periodic save.
func (c *Checkpointer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return ErrStopped
	}
	if c.scheduler != nil {
		return ErrAlreadyStarted
	}

	s, err := gocron.NewScheduler(gocron.WithClock(c.clock))
	if err != nil {
		return errors.Join(ErrFailedToSchedule, err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(c.interval),
		gocron.NewTask(c.run),
		gocron.WithName("offlineq-checkpoint"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return errors.Join(ErrFailedToSchedule, err)
	}

	s.Start()
	c.scheduler = s
	c.logger.Info("checkpointing started", logger.Duration(c.interval))
	return nil
}

// Stop cancels the schedule, waits for a running save and then saves one
// final time with ctx. Calling Stop again only repeats the final save.
func (c *Checkpointer) Stop(ctx context.Context) error {
	c.mu.Lock()
	s := c.scheduler
	c.scheduler = nil
	c.stopped = true
	c.mu.Unlock()

	if s != nil {
		if err := s.Shutdown(); err != nil {
			c.logger.WarnContext(ctx, "checkpoint scheduler shutdown failed", logger.Error(err))
		}
	}

	return c.save(ctx)
}

// SaveNow saves immediately, outside the schedule.
func (c *Checkpointer) SaveNow(ctx context.Context) error {
	return c.save(ctx)
}

// Saves returns the number of successful saves.
func (c *Checkpointer) Saves() int64 { return c.saves.Load() }

// Failures returns the number of failed saves.
func (c *Checkpointer) Failures() int64 { return c.failures.Load() }

func (c *Checkpointer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	_ = c.save(ctx)
}

func (c *Checkpointer) save(ctx context.Context) error {
	start := c.clock.Now()
	if err := c.saver.Save(ctx); err != nil {
		c.failures.Add(1)
		c.logger.ErrorContext(ctx, "checkpoint save failed", logger.Error(err))
		return err
	}
	c.saves.Add(1)
	c.logger.DebugContext(ctx, "checkpoint saved", logger.Duration(c.clock.Since(start)))
	return nil
}
