package connectivity_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/connectivity"
)

func successfulDial(context.Context, string, string) (net.Conn, error) {
	client, server := net.Pipe()
	_ = server.Close()
	return client, nil
}

func failingDial(context.Context, string, string) (net.Conn, error) {
	return nil, errors.New("network is unreachable")
}

func TestProbeMonitor_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dial     connectivity.DialFunc
		local    bool
		expected connectivity.Status
	}{
		{name: "wide target reachable", dial: successfulDial, local: false, expected: connectivity.ReachableWide},
		{name: "only local network", dial: failingDial, local: true, expected: connectivity.ReachableLocal},
		{name: "no network", dial: failingDial, local: false, expected: connectivity.Unreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			local := tt.local
			p := connectivity.NewProbeMonitor(
				connectivity.WithTargets("example.invalid:443"),
				connectivity.WithDialer(tt.dial),
				connectivity.WithLocalCheck(func() bool { return local }),
			)
			defer p.Close()

			assert.Equal(t, tt.expected, p.Check(context.Background()))
			assert.Equal(t, tt.expected, p.Status())
		})
	}
}

func TestProbeMonitor_TriesEveryTarget(t *testing.T) {
	t.Parallel()

	var attempts []string
	p := connectivity.NewProbeMonitor(
		connectivity.WithTargets("a:1", "b:2"),
		connectivity.WithDialer(func(ctx context.Context, network, address string) (net.Conn, error) {
			attempts = append(attempts, address)
			if address == "b:2" {
				return successfulDial(ctx, network, address)
			}
			return failingDial(ctx, network, address)
		}),
	)
	defer p.Close()

	assert.Equal(t, connectivity.ReachableWide, p.Check(context.Background()))
	assert.Equal(t, []string{"a:1", "b:2"}, attempts)
}

func TestProbeMonitor_Polling(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	var online atomic.Bool

	p := connectivity.NewProbeMonitor(
		connectivity.WithProbeClock(clock),
		connectivity.WithInterval(5*time.Second),
		connectivity.WithDialer(func(ctx context.Context, network, address string) (net.Conn, error) {
			if online.Load() {
				return successfulDial(ctx, network, address)
			}
			return failingDial(ctx, network, address)
		}),
		connectivity.WithLocalCheck(func() bool { return false }),
	)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := p.Subscribe(ctx)

	require.NoError(t, p.Start(ctx))
	assert.ErrorIs(t, p.Start(ctx), connectivity.ErrAlreadyStarted)
	assert.Equal(t, connectivity.Unreachable, p.Status())

	online.Store(true)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(5 * time.Second)

	select {
	case msg := <-sub.Receive(ctx):
		assert.Equal(t, connectivity.ReachableWide, msg.Data)
	case <-time.After(time.Second):
		t.Fatal("expected status change after tick")
	}

	require.NoError(t, p.Stop())
	assert.ErrorIs(t, p.Stop(), connectivity.ErrNotStarted)
}
