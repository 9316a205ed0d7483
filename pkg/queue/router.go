package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/offlineq/pkg/logger"
)

// Router is an Executor that dispatches operations by ID to registered
// executors. Operations without a registered executor complete as Failed,
// since retrying cannot help until a handler exists.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Executor
	logger   *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger for the router.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		handlers: make(map[string]Executor),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle registers the executor for operations with the given ID, replacing
// any previous registration. Nil executors are ignored.
func (r *Router) Handle(id string, e Executor) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = e
}

// HandleFunc registers fn for operations with the given ID.
func (r *Router) HandleFunc(id string, fn func(ctx context.Context, op *Operation, complete CompletionFunc)) {
	if fn == nil {
		return
	}
	r.Handle(id, ExecutorFunc(fn))
}

func (r *Router) Execute(ctx context.Context, op *Operation, complete CompletionFunc) {
	r.mu.RLock()
	h, ok := r.handlers[op.ID()]
	r.mu.RUnlock()

	if !ok {
		r.logger.ErrorContext(ctx, "no handler registered for operation",
			logger.Component("router"),
			logger.OperationID(op.ID()),
			logger.OperationKey(op.Key()),
			logger.Error(ErrHandlerNotFound))
		complete(Failed())
		return
	}

	h.Execute(ctx, op, complete)
}
