package kafka

import "errors"

var (
	ErrWriterNil     = errors.New("kafka writer cannot be nil")
	ErrNoBrokers     = errors.New("at least one kafka broker is required")
	ErrEmptyTopic    = errors.New("kafka topic cannot be empty")
	ErrEncodeMessage = errors.New("failed to encode operation message")
)
