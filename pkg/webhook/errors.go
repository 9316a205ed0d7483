package webhook

import "errors"

var (
	ErrInvalidURL       = errors.New("invalid webhook URL")
	ErrEncodeRequest    = errors.New("failed to encode webhook request")
	ErrSecretRequired   = errors.New("webhook secret is required")
	ErrSignatureMissing = errors.New("webhook signature headers are missing")
	ErrSignatureExpired = errors.New("webhook signature timestamp out of range")
	ErrSignatureInvalid = errors.New("webhook signature mismatch")
	ErrUnexpectedStatus = errors.New("webhook returned unexpected status")
)
