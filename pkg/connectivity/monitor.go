package connectivity

import (
	"context"
	"sync"

	"github.com/dmitrymomot/offlineq/pkg/broadcast"
)

// Monitor supplies the current reachability and change notifications.
type Monitor interface {
	Status() Status
	// Subscribe delivers status changes until ctx is cancelled or the
	// subscriber is closed.
	Subscribe(ctx context.Context) broadcast.Subscriber[Status]
	Close() error
}

// ManualMonitor is a Monitor whose status is set by the host.
type ManualMonitor struct {
	mu     sync.RWMutex
	status Status
	hub    *broadcast.MemoryBroadcaster[Status]
}

// NewManualMonitor creates a monitor starting at initial.
func NewManualMonitor(initial Status) *ManualMonitor {
	return &ManualMonitor{
		status: initial,
		hub:    broadcast.NewMemoryBroadcaster[Status](1, broadcast.WithOverflowPolicy(broadcast.KeepLatest)),
	}
}

func (m *ManualMonitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Set updates the status and notifies subscribers. It reports whether the
// status changed; setting the current value again publishes nothing.
func (m *ManualMonitor) Set(status Status) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == status {
		return false
	}
	m.status = status
	// Publishing under the lock keeps notifications in Set order.
	_ = m.hub.Broadcast(context.Background(), broadcast.Message[Status]{Data: status})
	return true
}

func (m *ManualMonitor) Subscribe(ctx context.Context) broadcast.Subscriber[Status] {
	return m.hub.Subscribe(ctx)
}

func (m *ManualMonitor) Close() error {
	return m.hub.Close()
}
