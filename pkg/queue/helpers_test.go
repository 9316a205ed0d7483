package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/connectivity"
	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type call struct {
	op       *queue.Operation
	complete queue.CompletionFunc
}

// fakeExecutor records dispatched operations and lets the test complete them.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []call
}

func (e *fakeExecutor) Execute(_ context.Context, op *queue.Operation, complete queue.CompletionFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call{op: op, complete: complete})
}

func (e *fakeExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *fakeExecutor) at(i int) call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[i]
}

func (e *fakeExecutor) ids() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, len(e.calls))
	for i, c := range e.calls {
		ids[i] = c.op.ID()
	}
	return ids
}

// waitCall waits for the n-th dispatch (1-based) and returns it.
func (e *fakeExecutor) waitCall(t *testing.T, n int) call {
	t.Helper()
	require.Eventually(t, func() bool { return e.count() >= n }, waitFor, tick)
	return e.at(n - 1)
}

func newScheduler(t *testing.T, exec queue.Executor, monitor connectivity.Monitor, opts ...queue.Option) *queue.Scheduler {
	t.Helper()
	return newSchedulerWithStorage(t, queue.NewMemoryStorage(), exec, monitor, opts...)
}

func newSchedulerWithStorage(t *testing.T, storage queue.Storage, exec queue.Executor, monitor connectivity.Monitor, opts ...queue.Option) *queue.Scheduler {
	t.Helper()
	opts = append([]queue.Option{queue.WithLogger(logger.Discard())}, opts...)
	s, err := queue.New(context.Background(), "test", storage, exec, monitor, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func reachable() *connectivity.ManualMonitor {
	return connectivity.NewManualMonitor(connectivity.ReachableWide)
}

func stateOf(s *queue.Scheduler, op *queue.Operation) (queue.State, bool) {
	for _, snap := range s.Operations() {
		if snap.Key == op.Key() {
			return snap.State, true
		}
	}
	return 0, false
}

func requireState(t *testing.T, s *queue.Scheduler, op *queue.Operation, want queue.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, ok := stateOf(s, op)
		return ok && got == want
	}, waitFor, tick, "operation %s never reached %s", op.ID(), want)
}
