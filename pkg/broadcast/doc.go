// Package broadcast provides type-safe, in-process fan-out of messages to
// many subscribers.
//
// A Broadcaster never blocks the publisher: each subscriber owns a buffered
// channel and a message that does not fit is handled according to the
// broadcaster's overflow policy. DropNewest (the default) discards the
// incoming message for that subscriber only; KeepLatest discards the oldest
// buffered message instead, which suits state-change streams where only the
// most recent value matters.
//
// Basic usage:
//
//	b := broadcast.NewMemoryBroadcaster[string](10)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive(ctx) {
//		fmt.Println(msg.Data)
//	}
//
// Subscriptions are cleaned up when the subscriber's context is cancelled,
// when Close is called on the subscriber, or when the broadcaster is closed.
package broadcast
