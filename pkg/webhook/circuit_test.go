package webhook_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/offlineq/pkg/webhook"
)

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cb := webhook.NewCircuitBreaker(3, 2, time.Minute, clock)

	ok, _ := cb.Allow()
	assert.True(t, ok)
	assert.Equal(t, webhook.CircuitClosed, cb.State())

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, webhook.CircuitClosed, cb.State(), "success resets the failure streak")

	cb.RecordFailure()
	assert.Equal(t, webhook.CircuitOpen, cb.State())

	clock.Advance(45 * time.Second)
	ok, wait := cb.Allow()
	assert.False(t, ok)
	assert.Equal(t, 15*time.Second, wait)

	clock.Advance(15 * time.Second)
	ok, _ = cb.Allow()
	assert.True(t, ok)
	assert.Equal(t, webhook.CircuitHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, webhook.CircuitOpen, cb.State(), "failure while half-open reopens")

	clock.Advance(time.Minute)
	ok, _ = cb.Allow()
	assert.True(t, ok)
	cb.RecordSuccess()
	assert.Equal(t, webhook.CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, webhook.CircuitClosed, cb.State())
}

func TestCircuitStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "closed", webhook.CircuitClosed.String())
	assert.Equal(t, "open", webhook.CircuitOpen.String())
	assert.Equal(t, "half-open", webhook.CircuitHalfOpen.String())
	assert.Equal(t, "unknown", webhook.CircuitState(9).String())
}
