package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/offlineq/pkg/broadcast"
	"github.com/dmitrymomot/offlineq/pkg/connectivity"
	"github.com/dmitrymomot/offlineq/pkg/logger"
)

// Scheduler owns a named queue of operations and dispatches them to an
// executor while the network is reachable.
//
// Every method is safe for concurrent use. Queue state lives on a single
// scheduling goroutine; methods hand work to it and wait for the result.
type Scheduler struct {
	name     string
	storage  Storage
	executor Executor
	monitor  connectivity.Monitor
	codec    Codec
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *Metrics

	shutdownTimeout time.Duration

	// owned by the scheduling goroutine
	ops               operations
	running           int
	maxConcurrent     int
	waitBetween       time.Duration
	rescanOnReconnect bool
	started           bool
	lastStatus        connectivity.Status
	delays            *delayQueue

	sub       broadcast.Subscriber[connectivity.Status]
	subCancel context.CancelFunc

	cmds      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a scheduler for the named queue, loads previously saved
// operations from storage and subscribes to connectivity changes.
//
// Nothing is dispatched until StartHandlingOperations is called. A load
// failure is logged and leaves the queue empty or partial; it does not fail
// construction.
func New(ctx context.Context, name string, storage Storage, executor Executor, monitor connectivity.Monitor, opts ...Option) (*Scheduler, error) {
	if name == "" {
		return nil, ErrNameEmpty
	}
	if storage == nil {
		return nil, ErrStorageNil
	}
	if executor == nil {
		return nil, ErrExecutorNil
	}
	if monitor == nil {
		return nil, ErrMonitorNil
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := &Scheduler{
		name:              name,
		storage:           storage,
		executor:          executor,
		monitor:           monitor,
		codec:             o.codec,
		clock:             o.clock,
		logger:            o.logger.With(logger.Component("offline_queue"), logger.Queue(name)),
		metrics:           o.metrics,
		shutdownTimeout:   o.shutdownTimeout,
		maxConcurrent:     o.maxConcurrent,
		waitBetween:       o.waitBetween,
		rescanOnReconnect: o.rescanOnReconnect,
		delays:            newDelayQueue(o.clock),
		cmds:              make(chan func(), 64),
		quit:              make(chan struct{}),
		done:              make(chan struct{}),
	}

	s.ops = s.load(ctx, o.loadTimeout)
	s.metrics.setPending(name, len(s.ops))
	s.metrics.setRunning(name, 0)

	subCtx, cancel := context.WithCancel(context.Background())
	s.subCancel = cancel
	s.sub = monitor.Subscribe(subCtx)
	s.lastStatus = monitor.Status()

	go s.loop()

	return s, nil
}

func (s *Scheduler) load(ctx context.Context, timeout time.Duration) operations {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	blob, err := s.storage.Load(ctx, s.name)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load queue, starting empty", logger.Error(err))
		return nil
	}
	if blob == nil {
		s.logger.DebugContext(ctx, "no stored queue found")
		return nil
	}

	ops, err := decodeOperations(s.codec, blob)
	if err != nil {
		s.logger.WarnContext(ctx, "some stored operations were dropped", logger.Error(err))
	}
	s.logger.InfoContext(ctx, "queue loaded", logger.Count(len(ops)))
	return ops
}

// Name returns the queue name used as the storage key.
func (s *Scheduler) Name() string { return s.name }

// StartHandlingOperations enables dispatch and scans the queue once. It may
// be called again at any time, for example after connectivity returns.
func (s *Scheduler) StartHandlingOperations() {
	s.do(func() {
		if !s.started {
			s.logger.Info("operation handling started")
		}
		s.started = true
		s.checkForNextOperation()
	})
}

// Append enqueues a new operation at the tail and returns it. Once handling
// has started, a scan follows when the concurrency budget allows.
// After Close the operation is returned but not enqueued.
func (s *Scheduler) Append(id string, payload map[string]any, attachment any) *Operation {
	op := NewOperation(id, payload, attachment)
	s.do(func() {
		s.ops.append(op)
		s.metrics.operationEnqueued(s.name)
		s.metrics.setPending(s.name, len(s.ops))
		s.logger.Debug("operation appended",
			logger.OperationID(op.id),
			logger.OperationKey(op.key),
			logger.Count(len(s.ops)))

		if s.started && !s.budgetExhausted() {
			s.checkForNextOperation()
		}
	})
	return op
}

// Remove deletes at most one operation matching op: the same instance if it
// is queued, otherwise a structurally equal one (the tail if it matches, else
// the oldest). Pending waits and retry delays of the removed
// operation are cancelled. A running operation is removed from the queue but
// its execution is not interrupted. Removing an absent operation is a no-op.
func (s *Scheduler) Remove(op *Operation) {
	if op == nil {
		return
	}
	s.do(func() {
		removed := s.ops.remove(op)
		if removed == nil {
			return
		}
		s.delays.cancel(removed.key)
		s.metrics.setPending(s.name, len(s.ops))
		s.logger.Debug("operation removed",
			logger.OperationID(removed.id),
			logger.OperationKey(removed.key),
			logger.State(removed.State().String()))
	})
}

// Reset makes a Failed operation Ready again and, once handling has started,
// scans the queue. It matches like Remove but only considers Failed
// operations. Reports whether an operation was reset.
func (s *Scheduler) Reset(op *Operation) bool {
	if op == nil {
		return false
	}
	var ok bool
	s.do(func() {
		target := s.findFailed(op)
		if target == nil || s.transition(target, eventReset) != nil {
			return
		}
		ok = true
		if s.started {
			s.checkForNextOperation()
		}
	})
	return ok
}

// ResetFailed makes every Failed operation Ready again and returns how many
// were reset.
func (s *Scheduler) ResetFailed() int {
	var n int
	s.do(func() {
		for _, op := range s.ops {
			if op.State() == StateFailed && s.transition(op, eventReset) == nil {
				n++
			}
		}
		if n > 0 && s.started {
			s.checkForNextOperation()
		}
	})
	return n
}

func (s *Scheduler) findFailed(op *Operation) *Operation {
	if i := s.ops.indexOf(op); i >= 0 {
		if s.ops[i].State() == StateFailed {
			return s.ops[i]
		}
		return nil
	}
	for _, candidate := range s.ops {
		if candidate.State() == StateFailed && candidate.Equal(op) {
			return candidate
		}
	}
	return nil
}

// SetMaxConcurrentOperations changes the concurrency budget. Zero means
// unbounded. Operations already running are not affected.
func (s *Scheduler) SetMaxConcurrentOperations(n int) {
	s.do(func() { s.maxConcurrent = max(n, 0) })
}

// SetWaitTimeBetweenOperations changes the pause applied before each dispatch.
func (s *Scheduler) SetWaitTimeBetweenOperations(d time.Duration) {
	s.do(func() { s.waitBetween = max(d, 0) })
}

// Save encodes the whole queue, including running and failed operations, and
// writes it to storage. It works after Close as well.
func (s *Scheduler) Save(ctx context.Context) error {
	var ops operations
	s.read(func() { ops = append(operations(nil), s.ops...) })

	blob, encErr := encodeOperations(s.codec, ops)
	if blob == nil {
		return errors.Join(ErrEncodeQueue, encErr)
	}
	if encErr != nil {
		s.logger.WarnContext(ctx, "some operations were not fully persisted", logger.Error(encErr))
	}

	if err := s.storage.Save(ctx, s.name, blob); err != nil {
		s.logger.ErrorContext(ctx, "failed to save queue", logger.Error(err))
		return errors.Join(ErrSaveQueue, err)
	}

	s.logger.DebugContext(ctx, "queue saved", logger.Count(len(ops)))
	return nil
}

// Operations returns a snapshot of the queue, oldest first.
func (s *Scheduler) Operations() []Snapshot {
	var snaps []Snapshot
	s.read(func() { snaps = s.ops.snapshots() })
	return snaps
}

// Len returns the number of queued operations in any state.
func (s *Scheduler) Len() int {
	var n int
	s.read(func() { n = len(s.ops) })
	return n
}

// RunningCount returns the number of operations currently executing.
func (s *Scheduler) RunningCount() int {
	var n int
	s.read(func() { n = s.running })
	return n
}

// Close stops the scheduling goroutine, cancels pending waits and retry
// delays, and unsubscribes from the monitor. Running executions are not
// interrupted; their completions are ignored. The queue is not saved.
func (s *Scheduler) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
		s.subCancel()
		_ = s.sub.Close()
		s.logger.Info("scheduler closed")
	})
	return nil
}

// Run returns a function suitable for errgroup: it starts handling
// operations, blocks until ctx is cancelled, then closes the scheduler and
// saves the queue.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		s.StartHandlingOperations()
		<-ctx.Done()

		closeErr := s.Close()

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		return errors.Join(closeErr, s.Save(saveCtx))
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	updates := s.sub.Receive(context.Background())
	for {
		select {
		case <-s.quit:
			s.delays.stop()
			return
		case fn := <-s.cmds:
			fn()
		case <-s.delays.C():
			s.delays.runDue()
		case msg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			s.handleStatus(msg.Data)
		}
	}
}

// post queues fn for the scheduling goroutine. Reports false once closed.
func (s *Scheduler) post(fn func()) bool {
	select {
	case <-s.quit:
		return false
	default:
	}
	select {
	case s.cmds <- fn:
		return true
	case <-s.done:
		return false
	}
}

// do runs fn on the scheduling goroutine and waits for it.
func (s *Scheduler) do(fn func()) bool {
	finished := make(chan struct{})
	if !s.post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-s.done:
		return false
	}
}

// read runs fn on the scheduling goroutine, or directly once it has exited.
func (s *Scheduler) read(fn func()) {
	if s.do(fn) {
		return
	}
	<-s.done
	fn()
}

func (s *Scheduler) budgetExhausted() bool {
	return s.maxConcurrent > 0 && s.running >= s.maxConcurrent
}

// checkForNextOperation walks the queue from the tail and dispatches Ready
// operations until the budget is spent. With a wait configured it prepares
// one operation and stops.
func (s *Scheduler) checkForNextOperation() {
	for i := len(s.ops) - 1; i >= 0; i-- {
		if s.budgetExhausted() {
			return
		}
		op := s.ops[i]
		if op.State() != StateReady {
			continue
		}

		if s.waitBetween > 0 {
			if s.transition(op, eventPrepare) != nil {
				return
			}
			s.delays.schedule(op.key, s.waitBetween, func() { s.tryOperation(op) })
			return
		}

		if !s.tryOperation(op) {
			return
		}
	}
}

// tryOperation dispatches op if it is still queued, the budget allows and
// the network is reachable. A skipped Preparing operation goes back to Ready.
func (s *Scheduler) tryOperation(op *Operation) bool {
	if s.ops.indexOf(op) < 0 {
		return false
	}
	state := op.State()
	if state != StateReady && state != StatePreparing {
		return false
	}

	if s.budgetExhausted() {
		s.skipDispatch(op, skipReasonBudget)
		return false
	}
	if !s.monitor.Status().Reachable() {
		s.skipDispatch(op, skipReasonUnreachable)
		return false
	}

	if s.transition(op, eventDispatch) != nil {
		return false
	}
	s.running++
	s.metrics.operationDispatched(s.name)
	s.metrics.setRunning(s.name, s.running)
	s.logger.Debug("operation dispatched",
		logger.OperationID(op.id),
		logger.OperationKey(op.key),
		logger.Count(s.running))

	go s.execute(op, s.clock.Now())
	return true
}

func (s *Scheduler) skipDispatch(op *Operation, reason string) {
	if op.State() == StatePreparing {
		_ = s.transition(op, eventSkip)
	}
	s.metrics.dispatchSkipped(s.name, reason)
	s.logger.Debug("dispatch skipped",
		logger.OperationID(op.id),
		logger.OperationKey(op.key),
		slog.String("reason", reason))
}

// execute runs on its own goroutine.
func (s *Scheduler) execute(op *Operation, startedAt time.Time) {
	var once sync.Once
	complete := func(res Result) {
		first := false
		once.Do(func() {
			first = true
			if !s.post(func() { s.handleResult(op, res, startedAt) }) {
				s.logger.Debug("completion after close ignored",
					logger.OperationID(op.id),
					logger.OperationKey(op.key),
					logger.Outcome(res.String()))
			}
		})
		if !first {
			s.logger.Warn("operation completed more than once, ignoring",
				logger.OperationID(op.id),
				logger.OperationKey(op.key),
				logger.Outcome(res.String()))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("executor panicked",
				logger.OperationID(op.id),
				logger.OperationKey(op.key),
				slog.Any("panic", r))
			complete(Failed())
		}
	}()

	s.executor.Execute(context.Background(), op, complete)
}

func (s *Scheduler) handleResult(op *Operation, res Result, startedAt time.Time) {
	if s.running > 0 {
		s.running--
	}
	s.metrics.operationCompleted(s.name, res.Kind())
	s.metrics.setRunning(s.name, s.running)

	attrs := []any{
		logger.OperationID(op.id),
		logger.OperationKey(op.key),
		logger.Outcome(res.String()),
		logger.Duration(s.clock.Since(startedAt)),
	}

	switch res.Kind() {
	case ResultSuccess:
		if s.ops.removeInstance(op) {
			s.delays.cancel(op.key)
			s.metrics.setPending(s.name, len(s.ops))
		}
		s.logger.Info("operation succeeded", attrs...)
		s.checkForNextOperation()

	case ResultRetry:
		_ = s.transition(op, eventRetry)
		if s.ops.indexOf(op) < 0 {
			s.logger.Debug("operation removed while running, not retrying", attrs...)
			return
		}
		after := res.RetryAfter()
		s.logger.Info("operation will be retried", append(attrs, slog.Duration("retry_after", after))...)
		if after <= 0 {
			s.tryOperation(op)
			return
		}
		s.delays.schedule(op.key, after, func() { s.tryOperation(op) })

	case ResultFailed:
		_ = s.transition(op, eventFail)
		s.logger.Warn("operation failed", attrs...)
		s.checkForNextOperation()
	}
}

func (s *Scheduler) handleStatus(status connectivity.Status) {
	prev := s.lastStatus
	s.lastStatus = status
	if prev == status {
		return
	}
	s.logger.Info("connectivity changed", logger.Status(status.String()))

	if s.rescanOnReconnect && s.started && !prev.Reachable() && status.Reachable() {
		s.checkForNextOperation()
	}
}

func (s *Scheduler) transition(op *Operation, ev lifecycleEvent) error {
	from := op.State()
	to, err := op.fsm.Fire(ev)
	if err != nil {
		s.logger.Error("invalid operation state transition",
			logger.OperationID(op.id),
			logger.OperationKey(op.key),
			logger.State(from.String()),
			slog.String("event", string(ev)),
			logger.Error(err))
		return err
	}
	s.logger.Debug("operation state changed",
		logger.OperationID(op.id),
		logger.OperationKey(op.key),
		slog.String("from", from.String()),
		logger.State(to.String()))
	return nil
}
