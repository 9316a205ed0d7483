package queue

import "context"

// CompletionFunc reports the outcome of an execution. Only the first call
// has an effect.
type CompletionFunc func(Result)

// Executor performs the work of an operation.
//
// Execute must call complete exactly once and should return without waiting
// for the underlying work; the Scheduler does not time out executions, so an
// executor that never completes holds a concurrency slot for good.
type Executor interface {
	Execute(ctx context.Context, op *Operation, complete CompletionFunc)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, op *Operation, complete CompletionFunc)

func (f ExecutorFunc) Execute(ctx context.Context, op *Operation, complete CompletionFunc) {
	f(ctx, op, complete)
}
