package queue

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "offlineq"

// Metrics exposes scheduler activity to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	enqueued   *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	running    *prometheus.GaugeVec
	pending    *prometheus.GaugeVec
}

// NewMetrics creates the queue collectors and registers them with reg.
// Several schedulers may share one Metrics; series are labelled by queue name.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queue_operations_enqueued_total",
			Help:      "Operations appended to the queue.",
		}, []string{"queue"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queue_operations_dispatched_total",
			Help:      "Operations handed to the executor.",
		}, []string{"queue"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queue_operation_outcomes_total",
			Help:      "Execution outcomes by kind.",
		}, []string{"queue", "outcome"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queue_dispatch_skipped_total",
			Help:      "Dispatch attempts abandoned before execution.",
		}, []string{"queue", "reason"}),
		running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "queue_operations_running",
			Help:      "Operations currently executing.",
		}, []string{"queue"}),
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "queue_operations_pending",
			Help:      "Operations held in the queue, including running and failed ones.",
		}, []string{"queue"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{m.enqueued, m.dispatched, m.outcomes, m.skipped, m.running, m.pending} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrMetricsRegister, err)
		}
	}
	return m, nil
}

const (
	skipReasonUnreachable = "unreachable"
	skipReasonBudget      = "concurrency_limit"
)

func (m *Metrics) operationEnqueued(queue string) {
	if m == nil {
		return
	}
	m.enqueued.WithLabelValues(queue).Inc()
}

func (m *Metrics) operationDispatched(queue string) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(queue).Inc()
}

func (m *Metrics) operationCompleted(queue string, kind ResultKind) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(queue, kind.String()).Inc()
}

func (m *Metrics) dispatchSkipped(queue, reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(queue, reason).Inc()
}

func (m *Metrics) setRunning(queue string, n int) {
	if m == nil {
		return
	}
	m.running.WithLabelValues(queue).Set(float64(n))
}

func (m *Metrics) setPending(queue string, n int) {
	if m == nil {
		return
	}
	m.pending.WithLabelValues(queue).Set(float64(n))
}
