package sqlite

import "errors"

var (
	ErrEmptyPath               = errors.New("sqlite database path is required")
	ErrEmptyQueueName          = errors.New("queue name cannot be empty")
	ErrFailedToOpenDatabase    = errors.New("failed to open sqlite database")
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")
)
