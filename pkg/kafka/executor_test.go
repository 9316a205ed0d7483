package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/kafka"
	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func execute(t *testing.T, exec *kafka.Executor, op *queue.Operation) queue.Result {
	t.Helper()
	done := make(chan queue.Result, 1)
	exec.Execute(context.Background(), op, func(r queue.Result) { done <- r })
	select {
	case r := <-done:
		return r
	case <-time.After(time.Second):
		t.Fatal("executor did not complete")
		return queue.Result{}
	}
}

func newExecutor(t *testing.T, w kafka.MessageWriter) *kafka.Executor {
	t.Helper()
	exec, err := kafka.NewExecutor(w,
		kafka.WithLogger(logger.Discard()),
		kafka.WithQueueName("uploads"),
		kafka.WithConfig(kafka.Config{WriteTimeout: time.Second, RetryBackoff: 5 * time.Second}),
	)
	require.NoError(t, err)
	return exec
}

func TestNewExecutorNilWriter(t *testing.T) {
	t.Parallel()

	_, err := kafka.NewExecutor(nil)
	assert.ErrorIs(t, err, kafka.ErrWriterNil)
}

func TestExecutorWritesMessage(t *testing.T) {
	t.Parallel()

	op := queue.NewOperation("upload_photo", map[string]any{"path": "/a.jpg"}, "ignored")

	w := &MockWriter{}
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafkago.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		msg := msgs[0]

		var value kafka.Message
		if err := json.Unmarshal(msg.Value, &value); err != nil {
			return false
		}

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}

		return string(msg.Key) == "upload_photo" &&
			value.OperationID == "upload_photo" &&
			value.Payload["path"] == "/a.jpg" &&
			headers[kafka.HeaderQueue] == "uploads" &&
			headers[kafka.HeaderOperationKey] == op.Key().String()
	})).Return(nil)

	assert.Equal(t, queue.ResultSuccess, execute(t, newExecutor(t, w), op).Kind())
	w.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestExecutorOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want queue.ResultKind
	}{
		{"temporary broker error", kafkago.LeaderNotAvailable, queue.ResultRetry},
		{"network error", errors.New("dial tcp: connection refused"), queue.ResultRetry},
		{"deadline", context.DeadlineExceeded, queue.ResultRetry},
		{"message too large", kafkago.MessageSizeTooLarge, queue.ResultFailed},
		{"invalid topic", kafkago.InvalidTopic, queue.ResultFailed},
		{"batch with permanent error", kafkago.WriteErrors{kafkago.TopicAuthorizationFailed}, queue.ResultFailed},
		{"batch with temporary error", kafkago.WriteErrors{kafkago.NotLeaderForPartition}, queue.ResultRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := &MockWriter{}
			w.On("WriteMessages", mock.Anything, mock.Anything).Return(tt.err)

			res := execute(t, newExecutor(t, w), queue.NewOperation("x", nil, nil))
			assert.Equal(t, tt.want, res.Kind())
			if tt.want == queue.ResultRetry {
				assert.Equal(t, 5*time.Second, res.RetryAfter())
			}
		})
	}
}

func TestExecutorUnencodablePayload(t *testing.T) {
	t.Parallel()

	w := &MockWriter{}
	op := queue.NewOperation("x", map[string]any{"ch": make(chan int)}, nil)

	assert.Equal(t, queue.ResultFailed, execute(t, newExecutor(t, w), op).Kind())
	w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestExecutorClose(t *testing.T) {
	t.Parallel()

	w := &MockWriter{}
	w.On("Close").Return(nil)

	require.NoError(t, newExecutor(t, w).Close())
	w.AssertExpectations(t)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, kafka.Config{Topic: "t"}.Validate(), kafka.ErrNoBrokers)
	assert.ErrorIs(t, kafka.Config{Brokers: []string{"b:9092"}}.Validate(), kafka.ErrEmptyTopic)
	assert.NoError(t, kafka.Config{Brokers: []string{"b:9092"}, Topic: "t"}.Validate())

	w := kafka.NewWriter(kafka.Config{Brokers: []string{"b:9092"}, Topic: "t"})
	assert.Equal(t, "t", w.Topic)
}
