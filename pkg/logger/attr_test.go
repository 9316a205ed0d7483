package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestOperationKey(t *testing.T) {
	attr := logger.OperationKey("k-1")
	require.Equal(t, "operation_key", attr.Key)
	assert.Equal(t, "k-1", attr.Value.Any())

	assert.True(t, logger.OperationKey(nil).Equal(slog.Attr{}))
}

func TestStringAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{logger.Component("scheduler"), "component", "scheduler"},
		{logger.Queue("uploads"), "queue", "uploads"},
		{logger.OperationID("sync"), "operation_id", "sync"},
		{logger.State("ready"), "state", "ready"},
		{logger.Outcome("retry"), "outcome", "retry"},
		{logger.Status("reachable_wide"), "status", "reachable_wide"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.val, tt.attr.Value.String())
		})
	}
}

func TestDurationAndCount(t *testing.T) {
	d := logger.Duration(2 * time.Second)
	assert.Equal(t, "duration", d.Key)
	assert.Equal(t, 2*time.Second, d.Value.Duration())

	c := logger.Count(3)
	assert.Equal(t, "count", c.Key)
	assert.Equal(t, int64(3), c.Value.Int64())
}
