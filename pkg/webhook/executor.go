package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

// Request is the JSON body POSTed for every operation.
type Request struct {
	OperationID string         `json:"operation_id"`
	Key         string         `json:"key"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithSecret enables request signing.
func WithSecret(secret string) Option {
	return func(e *Executor) {
		e.secret = secret
	}
}

// WithTimeout bounds each request. Defaults to 10s.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) Option {
	return func(e *Executor) {
		if key != "" && value != "" {
			e.headers.Set(key, value)
		}
	}
}

// WithBackoff sets the retry delay strategy. Defaults to DefaultBackoff.
func WithBackoff(b BackoffStrategy) Option {
	return func(e *Executor) {
		if b != nil {
			e.backoff = b
		}
	}
}

// WithCircuitBreaker replaces the breaker built from the thresholds.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(e *Executor) {
		e.breaker = cb
	}
}

// WithLogger sets the logger for failed deliveries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the clock used for signing timestamps and the default
// circuit breaker.
func WithClock(c clockwork.Clock) Option {
	return func(e *Executor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithAttemptTTL sets how long retry state is kept for an operation that
// is not seen again. Defaults to one hour.
func WithAttemptTTL(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.attemptTTL = d
		}
	}
}

// WithConfig applies every setting of cfg except URL.
func WithConfig(cfg Config) Option {
	return func(e *Executor) {
		WithSecret(cfg.Secret)(e)
		WithTimeout(cfg.Timeout)(e)
		WithBackoff(ExponentialBackoff{
			InitialInterval: cfg.InitialBackoff,
			MaxInterval:     cfg.MaxBackoff,
			Multiplier:      2,
			JitterFactor:    0.1,
		})(e)
		e.failureThreshold = cfg.FailureThreshold
		e.successThreshold = cfg.SuccessThreshold
		e.recoveryTimeout = cfg.RecoveryTimeout
		WithAttemptTTL(cfg.AttemptTTL)(e)
	}
}

// Executor POSTs operations to a single endpoint.
type Executor struct {
	url     string
	client  *http.Client
	secret  string
	timeout time.Duration
	headers http.Header
	backoff BackoffStrategy
	breaker *CircuitBreaker
	clock   clockwork.Clock
	logger  *slog.Logger

	failureThreshold int
	successThreshold int
	recoveryTimeout  time.Duration

	mu         sync.Mutex
	attempts   map[uuid.UUID]attemptState
	attemptTTL time.Duration
}

// attemptState counts consecutive retries of one operation. Entries idle
// longer than attemptTTL are pruned, since operations removed from the
// queue never report a final outcome here.
type attemptState struct {
	n    int
	seen time.Time
}

// NewExecutor creates an executor delivering to endpoint.
func NewExecutor(endpoint string, opts ...Option) (*Executor, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, endpoint)
	}

	e := &Executor{
		url:      endpoint,
		client:   &http.Client{},
		timeout:  10 * time.Second,
		headers:  make(http.Header),
		backoff:  DefaultBackoff(),
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		attempts:   make(map[uuid.UUID]attemptState),
		attemptTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.breaker == nil {
		e.breaker = NewCircuitBreaker(e.failureThreshold, e.successThreshold, e.recoveryTimeout, e.clock)
	}
	e.logger = e.logger.With(logger.Component("webhook_executor"))

	return e, nil
}

// Breaker exposes the circuit breaker guarding the endpoint.
func (e *Executor) Breaker() *CircuitBreaker { return e.breaker }

// Execute sends the request on its own goroutine and returns immediately.
func (e *Executor) Execute(ctx context.Context, op *queue.Operation, complete queue.CompletionFunc) {
	body, err := json.Marshal(Request{
		OperationID: op.ID(),
		Key:         op.Key().String(),
		Payload:     op.Payload(),
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "operation cannot be encoded",
			logger.OperationID(op.ID()),
			logger.Error(errors.Join(ErrEncodeRequest, err)))
		complete(queue.Failed())
		return
	}

	if ok, wait := e.breaker.Allow(); !ok {
		e.logger.DebugContext(ctx, "circuit open, delaying operation",
			logger.OperationID(op.ID()),
			logger.Duration(wait))
		complete(queue.Retry(wait))
		return
	}

	go func() {
		status, retryAfter, err := e.post(ctx, op, body)
		result := e.classify(op, status, retryAfter)
		if err != nil {
			e.logger.WarnContext(ctx, "webhook delivery failed",
				logger.OperationID(op.ID()),
				logger.Outcome(result.String()),
				logger.Error(err))
		}
		complete(result)
	}()
}

func (e *Executor) post(ctx context.Context, op *queue.Operation, body []byte) (int, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	for k, v := range e.headers {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderKey, op.Key().String())
	if e.secret != "" {
		ts := e.clock.Now().Unix()
		req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
		req.Header.Set(HeaderSignature, Sign(e.secret, ts, body))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, 0, nil
	}
	retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), e.clock.Now())
	return resp.StatusCode, retryAfter, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
}

func (e *Executor) classify(op *queue.Operation, status int, retryAfter time.Duration) queue.Result {
	switch {
	case status >= 200 && status < 300:
		e.breaker.RecordSuccess()
		e.forget(op.Key())
		return queue.Success()

	case isPermanent(status):
		// The endpoint answered, so it is healthy even though the request was rejected.
		e.breaker.RecordSuccess()
		e.forget(op.Key())
		return queue.Failed()
	}

	e.breaker.RecordFailure()
	delay := e.backoff.NextInterval(e.attempt(op.Key()))
	if retryAfter > 0 {
		delay = retryAfter
	}
	return queue.Retry(delay)
}

func (e *Executor) attempt(key uuid.UUID) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	for k, st := range e.attempts {
		if now.Sub(st.seen) > e.attemptTTL {
			delete(e.attempts, k)
		}
	}

	st := e.attempts[key]
	st.n++
	st.seen = now
	e.attempts[key] = st
	return st.n
}

// Tracked reports how many operations currently have retry state.
func (e *Executor) Tracked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.attempts)
}

func (e *Executor) forget(key uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.attempts, key)
}

// isPermanent reports 4xx statuses that a retry cannot fix.
func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}

func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
