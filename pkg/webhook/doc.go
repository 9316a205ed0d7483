// Package webhook delivers queued operations to an HTTP endpoint.
//
// Executor implements queue.Executor. Every operation is POSTed as JSON:
//
//	{"operation_id": "upload_photo", "key": "<uuid>", "payload": {...}}
//
// The response decides the outcome:
//
//   - 2xx completes the operation with queue.Success.
//   - 4xx other than 408, 425 and 429 completes it with queue.Failed.
//   - Anything else, including transport errors, completes it with
//     queue.Retry using the configured BackoffStrategy. A Retry-After header
//     on 429 or 503 responses overrides the computed delay.
//
// A CircuitBreaker shared by all operations stops hitting an endpoint that
// keeps failing. While the circuit is open operations are retried after the
// remaining recovery time without making a request.
//
// # Request Signing
//
// With a secret configured each request carries:
//
//	X-Offlineq-Signature: hex HMAC-SHA256 of "<timestamp>.<body>"
//	X-Offlineq-Timestamp: unix seconds
//	X-Offlineq-Key:       operation key, stable across retries
//
// Receivers verify with Verify and can deduplicate retries on the key.
package webhook
