package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Queue records the queue name under the key "queue".
func Queue(name string) slog.Attr {
	return slog.String("queue", name)
}

// OperationID records the operation kind under the key "operation_id".
func OperationID(id string) slog.Attr {
	return slog.String("operation_id", id)
}

// OperationKey records the per-instance operation key under the key "operation_key".
// If key is nil, it returns an empty Attr.
func OperationKey(key any) slog.Attr {
	if key == nil {
		return slog.Attr{}
	}
	return slog.Any("operation_key", key)
}

// State records a lifecycle state under the key "state".
func State(state string) slog.Attr {
	return slog.String("state", state)
}

// Outcome records an execution outcome under the key "outcome".
func Outcome(outcome string) slog.Attr {
	return slog.String("outcome", outcome)
}

// Status records a connectivity status under the key "status".
func Status(status string) slog.Attr {
	return slog.String("status", status)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Count records a number of items under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}
