package queue_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/connectivity"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := queue.NewMetrics(reg)
	require.NoError(t, err)

	_, err = queue.NewMetrics(reg)
	assert.ErrorIs(t, err, queue.ErrMetricsRegister)
}

func TestSchedulerMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := queue.NewMetrics(reg)
	require.NoError(t, err)

	exec := &fakeExecutor{}
	monitor := reachable()
	s := newScheduler(t, exec, monitor, queue.WithMetrics(metrics), queue.WithMaxConcurrentOperations(1))

	s.Append("A", nil, nil)
	s.Append("B", nil, nil)
	s.StartHandlingOperations()

	exec.waitCall(t, 1).complete(queue.Success())
	exec.waitCall(t, 2)
	require.Eventually(t, func() bool { return s.Len() == 1 }, waitFor, tick)

	expected := `
# HELP offlineq_queue_operations_enqueued_total Operations appended to the queue.
# TYPE offlineq_queue_operations_enqueued_total counter
offlineq_queue_operations_enqueued_total{queue="test"} 2
# HELP offlineq_queue_operations_dispatched_total Operations handed to the executor.
# TYPE offlineq_queue_operations_dispatched_total counter
offlineq_queue_operations_dispatched_total{queue="test"} 2
# HELP offlineq_queue_operation_outcomes_total Execution outcomes by kind.
# TYPE offlineq_queue_operation_outcomes_total counter
offlineq_queue_operation_outcomes_total{outcome="success",queue="test"} 1
# HELP offlineq_queue_operations_running Operations currently executing.
# TYPE offlineq_queue_operations_running gauge
offlineq_queue_operations_running{queue="test"} 1
# HELP offlineq_queue_operations_pending Operations held in the queue, including running and failed ones.
# TYPE offlineq_queue_operations_pending gauge
offlineq_queue_operations_pending{queue="test"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"offlineq_queue_operations_enqueued_total",
		"offlineq_queue_operations_dispatched_total",
		"offlineq_queue_operation_outcomes_total",
		"offlineq_queue_operations_running",
		"offlineq_queue_operations_pending",
	))
}

func TestSchedulerMetricsSkippedDispatch(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := queue.NewMetrics(reg)
	require.NoError(t, err)

	monitor := connectivity.NewManualMonitor(connectivity.Unreachable)
	s := newScheduler(t, &fakeExecutor{}, monitor, queue.WithMetrics(metrics))

	s.Append("A", nil, nil)
	s.StartHandlingOperations()

	expected := `
# HELP offlineq_queue_dispatch_skipped_total Dispatch attempts abandoned before execution.
# TYPE offlineq_queue_dispatch_skipped_total counter
offlineq_queue_dispatch_skipped_total{queue="test",reason="unreachable"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "offlineq_queue_dispatch_skipped_total"))
}
