package checkpoint

import "errors"

var (
	ErrSaverNil         = errors.New("saver cannot be nil")
	ErrInvalidInterval  = errors.New("interval must be positive")
	ErrAlreadyStarted   = errors.New("checkpointer already started")
	ErrStopped          = errors.New("checkpointer stopped")
	ErrFailedToSchedule = errors.New("failed to schedule checkpoint job")
)
