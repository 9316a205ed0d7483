package webhook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/offlineq/pkg/webhook"
)

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		backoff webhook.ExponentialBackoff
		want    map[int]time.Duration
	}{
		{
			name:    "defaults",
			backoff: webhook.ExponentialBackoff{},
			want: map[int]time.Duration{
				-1: 0,
				0:  0,
				1:  time.Second,
				2:  2 * time.Second,
				5:  16 * time.Second,
				20: 5 * time.Minute,
			},
		},
		{
			name: "custom multiplier capped",
			backoff: webhook.ExponentialBackoff{
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      3,
			},
			want: map[int]time.Duration{
				1: 500 * time.Millisecond,
				2: 1500 * time.Millisecond,
				3: 4500 * time.Millisecond,
				4: 5 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for attempt, want := range tt.want {
				assert.Equal(t, want, tt.backoff.NextInterval(attempt), "attempt %d", attempt)
			}
		})
	}
}

func TestExponentialBackoffJitter(t *testing.T) {
	t.Parallel()

	b := webhook.ExponentialBackoff{InitialInterval: 10 * time.Second, MaxInterval: time.Hour, JitterFactor: 0.2}
	for range 100 {
		d := b.NextInterval(1)
		assert.GreaterOrEqual(t, d, 8*time.Second)
		assert.LessOrEqual(t, d, 12*time.Second)
	}
}

func TestFixedBackoff(t *testing.T) {
	t.Parallel()

	b := webhook.FixedBackoff{Interval: 3 * time.Second}
	assert.Zero(t, b.NextInterval(0))
	assert.Equal(t, 3*time.Second, b.NextInterval(1))
	assert.Equal(t, 3*time.Second, b.NextInterval(10))
}
