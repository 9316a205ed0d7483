package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

// QueueView is the read-only part of *queue.Scheduler served by the handler.
type QueueView interface {
	Name() string
	Operations() []queue.Snapshot
	RunningCount() int
}

// CheckFunc reports whether a dependency is ready.
type CheckFunc func(context.Context) error

// OperationView is the JSON form of a queued operation.
type OperationView struct {
	Key        string         `json:"key"`
	ID         string         `json:"operation_id"`
	State      string         `json:"state"`
	Payload    map[string]any `json:"payload,omitempty"`
	Attachment any            `json:"attachment,omitempty"`
}

// QueueStatus is the body of GET /queues/{name}.
type QueueStatus struct {
	Name       string          `json:"name"`
	Pending    int             `json:"pending"`
	Running    int             `json:"running"`
	Failed     int             `json:"failed"`
	Operations []OperationView `json:"operations"`
}

type handlerConfig struct {
	gatherer prometheus.Gatherer
	checks   []CheckFunc
	queues   map[string]QueueView
	logger   *slog.Logger
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

// WithGatherer sets the metrics source for /metrics. Defaults to
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(c *handlerConfig) {
		if g != nil {
			c.gatherer = g
		}
	}
}

// WithReadiness adds dependency checks run by /readyz.
func WithReadiness(checks ...CheckFunc) HandlerOption {
	return func(c *handlerConfig) {
		for _, check := range checks {
			if check != nil {
				c.checks = append(c.checks, check)
			}
		}
	}
}

// WithQueue registers a queue under its name.
func WithQueue(q QueueView) HandlerOption {
	return func(c *handlerConfig) {
		if q != nil {
			c.queues[q.Name()] = q
		}
	}
}

// WithHandlerLogger sets the logger for failed readiness checks.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewHandler returns the observability routes.
func NewHandler(opts ...HandlerOption) http.Handler {
	cfg := &handlerConfig{
		gatherer: prometheus.DefaultGatherer,
		queues:   make(map[string]QueueView),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", HealthCheckHandler(cfg.logger))
	mux.HandleFunc("GET /readyz", HealthCheckHandler(cfg.logger, cfg.checks...))
	mux.HandleFunc("GET /queues/{name}", queueHandler(cfg.queues))
	return mux
}

func queueHandler(queues map[string]QueueView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := queues[r.PathValue("name")]
		if !ok {
			http.Error(w, "queue not found", http.StatusNotFound)
			return
		}

		snaps := q.Operations()
		status := QueueStatus{
			Name:       q.Name(),
			Pending:    len(snaps),
			Running:    q.RunningCount(),
			Operations: make([]OperationView, 0, len(snaps)),
		}
		for _, snap := range snaps {
			if snap.State == queue.StateFailed {
				status.Failed++
			}
			status.Operations = append(status.Operations, OperationView{
				Key:        snap.Key.String(),
				ID:         snap.ID,
				State:      snap.State.String(),
				Payload:    snap.Payload,
				Attachment: snap.Attachment,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	}
}
