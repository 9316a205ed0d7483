package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

const (
	HeaderQueue        = "offlineq-queue"
	HeaderOperationKey = "offlineq-operation-key"
)

// MessageWriter is implemented by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the JSON value written for each operation.
type Message struct {
	OperationID string         `json:"operation_id"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// NewWriter creates a writer for cfg. Writes wait for all in-sync replicas.
func NewWriter(cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Option configures an Executor.
type Option func(*Executor)

// WithQueueName sets the queue header value.
func WithQueueName(name string) Option {
	return func(e *Executor) {
		e.queueName = name
	}
}

// WithWriteTimeout bounds each write. Defaults to 10s.
func WithWriteTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithRetryBackoff sets the delay reported with Retry. Defaults to 30s.
func WithRetryBackoff(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.backoff = d
		}
	}
}

// WithLogger sets the logger for the executor.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConfig applies WriteTimeout and RetryBackoff from cfg.
func WithConfig(cfg Config) Option {
	return func(e *Executor) {
		WithWriteTimeout(cfg.WriteTimeout)(e)
		WithRetryBackoff(cfg.RetryBackoff)(e)
	}
}

// Executor publishes operations to Kafka.
type Executor struct {
	writer    MessageWriter
	queueName string
	timeout   time.Duration
	backoff   time.Duration
	logger    *slog.Logger
}

func NewExecutor(writer MessageWriter, opts ...Option) (*Executor, error) {
	if writer == nil {
		return nil, ErrWriterNil
	}

	e := &Executor{
		writer:  writer,
		timeout: 10 * time.Second,
		backoff: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("kafka_executor"))

	return e, nil
}

// Execute writes the operation on its own goroutine and returns immediately.
func (e *Executor) Execute(ctx context.Context, op *queue.Operation, complete queue.CompletionFunc) {
	msg, err := e.message(op)
	if err != nil {
		e.logger.ErrorContext(ctx, "operation cannot be encoded",
			logger.OperationID(op.ID()),
			logger.Error(err))
		complete(queue.Failed())
		return
	}

	go func() {
		wctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		err := e.writer.WriteMessages(wctx, msg)
		result := e.classify(err)
		if err != nil {
			e.logger.WarnContext(ctx, "kafka write failed",
				logger.OperationID(op.ID()),
				logger.Outcome(result.String()),
				logger.Error(err))
		}
		complete(result)
	}()
}

// Close closes the underlying writer.
func (e *Executor) Close() error {
	return e.writer.Close()
}

func (e *Executor) message(op *queue.Operation) (kafka.Message, error) {
	value, err := json.Marshal(Message{OperationID: op.ID(), Payload: op.Payload()})
	if err != nil {
		return kafka.Message{}, errors.Join(ErrEncodeMessage, err)
	}

	headers := []kafka.Header{
		{Key: HeaderOperationKey, Value: []byte(op.Key().String())},
	}
	if e.queueName != "" {
		headers = append(headers, kafka.Header{Key: HeaderQueue, Value: []byte(e.queueName)})
	}

	return kafka.Message{
		Key:     []byte(op.ID()),
		Value:   value,
		Headers: headers,
	}, nil
}

// classify maps a write error onto an outcome. Anything not known to be
// permanent is retried.
func (e *Executor) classify(err error) queue.Result {
	if err == nil {
		return queue.Success()
	}

	var writeErrs kafka.WriteErrors
	if errors.As(err, &writeErrs) {
		for _, werr := range writeErrs {
			if werr != nil {
				err = werr
				break
			}
		}
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) && !kerr.Temporary() {
		return queue.Failed()
	}
	return queue.Retry(e.backoff)
}
