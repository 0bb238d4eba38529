// Package broadcast provides a generic in-process pub/sub channel with
// non-blocking delivery.
//
// The SDK uses it for the user-updated contract: when a profile changes,
// every subscribed shell component receives the fresh profile and can
// hot-swap its displayed user state without a refetch. The same mechanism
// carries logout notifications.
//
// Delivery is best-effort by design: a subscriber whose buffer is full has
// messages dropped rather than blocking the broadcaster or other
// subscribers. Subscriptions are cleaned up when their context is canceled
// or when Close is called.
//
// Usage:
//
//	b := broadcast.NewMemoryBroadcaster[session.UserProfile](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	go func() {
//		for msg := range sub.Receive() {
//			render(msg.Data)
//		}
//	}()
//
//	b.Broadcast(broadcast.Message[session.UserProfile]{Data: updated})
package broadcast
