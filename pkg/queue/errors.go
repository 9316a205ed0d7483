package queue

import "errors"

var (
	// ErrNameEmpty is returned when a scheduler is created without a queue name
	ErrNameEmpty = errors.New("queue name cannot be empty")

	// ErrStorageNil is returned when a nil storage is provided
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrExecutorNil is returned when a nil executor is provided
	ErrExecutorNil = errors.New("executor cannot be nil")

	// ErrMonitorNil is returned when a nil connectivity monitor is provided
	ErrMonitorNil = errors.New("connectivity monitor cannot be nil")

	// ErrEncodeQueue is returned when the queue cannot be encoded at all
	ErrEncodeQueue = errors.New("failed to encode queue")

	// ErrSaveQueue is returned when the encoded queue cannot be written to storage
	ErrSaveQueue = errors.New("failed to save queue")

	// ErrMalformedQueue is returned when a stored queue is not a list of entries
	ErrMalformedQueue = errors.New("stored queue is malformed")

	// ErrEntryInvalid is reported for a stored entry that cannot be decoded
	ErrEntryInvalid = errors.New("stored operation entry is invalid")

	// ErrEntrySkipped is reported for an operation that could not be encoded
	ErrEntrySkipped = errors.New("operation could not be encoded and was skipped")

	// ErrAttachmentDropped is reported when an attachment could not be encoded
	ErrAttachmentDropped = errors.New("attachment could not be encoded and was dropped")

	// ErrHandlerNotFound is logged when the router has no executor for an operation
	ErrHandlerNotFound = errors.New("no handler registered for operation")

	// ErrMetricsRegister is returned when queue metrics cannot be registered
	ErrMetricsRegister = errors.New("failed to register queue metrics")
)
