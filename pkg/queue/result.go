package queue

import "time"

// ResultKind is the three-way outcome of an execution.
type ResultKind uint8

const (
	ResultSuccess ResultKind = iota
	ResultRetry
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultRetry:
		return "retry"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what an Executor reports for a dispatched operation.
type Result struct {
	kind  ResultKind
	after time.Duration
}

// Success removes the operation from the queue.
func Success() Result { return Result{kind: ResultSuccess} }

// Retry keeps the operation queued and re-attempts it after the given delay.
// Negative delays are treated as zero.
func Retry(after time.Duration) Result {
	return Result{kind: ResultRetry, after: max(after, 0)}
}

// Failed keeps the operation queued but excludes it from scheduling until Reset.
func Failed() Result { return Result{kind: ResultFailed} }

func (r Result) Kind() ResultKind { return r.kind }

// RetryAfter is the retry delay; zero for non-retry results.
func (r Result) RetryAfter() time.Duration { return r.after }

func (r Result) String() string { return r.kind.String() }
