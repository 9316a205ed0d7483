package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/httpserver"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

type stubQueue struct {
	name string
	ops  []queue.Snapshot
}

func (q stubQueue) Name() string                 { return q.name }
func (q stubQueue) Operations() []queue.Snapshot { return q.ops }
func (q stubQueue) RunningCount() int {
	n := 0
	for _, op := range q.ops {
		if op.State == queue.StateRunning {
			n++
		}
	}
	return n
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := httpserver.NewHandler(httpserver.WithReadiness(func(context.Context) error { return errors.New("down") }))
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	rec := get(t, httpserver.NewHandler(httpserver.WithReadiness(ok, ok)), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	rec = get(t, httpserver.NewHandler(httpserver.WithReadiness(ok, down)), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	probes := prometheus.NewCounter(prometheus.CounterOpts{Name: "offlineq_test_probes_total", Help: "test"})
	reg.MustRegister(probes)
	probes.Add(3)

	rec := get(t, httpserver.NewHandler(httpserver.WithGatherer(reg)), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "offlineq_test_probes_total 3")
}

func TestQueueStatus(t *testing.T) {
	t.Parallel()

	key := uuid.New()
	h := httpserver.NewHandler(httpserver.WithQueue(stubQueue{
		name: "uploads",
		ops: []queue.Snapshot{
			{Key: key, ID: "upload", Payload: map[string]any{"path": "/a"}, State: queue.StateRunning},
			{Key: uuid.New(), ID: "sync", State: queue.StateFailed},
			{Key: uuid.New(), ID: "sync", State: queue.StateReady},
		},
	}))

	rec := get(t, h, "/queues/uploads")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status httpserver.QueueStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "uploads", status.Name)
	assert.Equal(t, 3, status.Pending)
	assert.Equal(t, 1, status.Running)
	assert.Equal(t, 1, status.Failed)
	require.Len(t, status.Operations, 3)
	assert.Equal(t, key.String(), status.Operations[0].Key)
	assert.Equal(t, "running", status.Operations[0].State)
	assert.Equal(t, map[string]any{"path": "/a"}, status.Operations[0].Payload)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/queues/missing").Code)
}
