package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on. The channel is
	// closed once the subscriber is closed.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases the subscription. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers without blocking.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context) Subscriber[T]
	Broadcast(ctx context.Context, msg Message[T]) error
	Close() error
}

// OverflowPolicy decides what happens when a subscriber's buffer is full.
type OverflowPolicy int

const (
	// DropNewest discards the message being broadcast for the full subscriber.
	DropNewest OverflowPolicy = iota
	// KeepLatest discards the oldest buffered message to make room.
	KeepLatest
)

type subscriber[T any] struct {
	ch     chan Message[T]
	policy OverflowPolicy
	closed bool
	mu     sync.Mutex
}

func newSubscriber[T any](bufferSize int, policy OverflowPolicy) *subscriber[T] {
	return &subscriber[T]{
		ch:     make(chan Message[T], bufferSize),
		policy: policy,
	}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send reports whether msg was delivered into the buffer.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
	}

	if s.policy != KeepLatest {
		return false
	}

	// Holding mu keeps other senders out; the reader may race us to the
	// buffered value, in which case the drain is a no-op.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
