package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultBufferSize is the per-subscriber channel buffer used when a
// non-positive size is requested.
const DefaultBufferSize = 16

// Message wraps a broadcast payload.
type Message[T any] struct {
	Data T
}

// Subscriber receives broadcast messages until closed.
type Subscriber[T any] struct {
	id   uuid.UUID
	ch   chan Message[T]
	once sync.Once
	b    *MemoryBroadcaster[T]
}

// Receive returns the subscriber's message channel. The channel is closed
// when the subscription ends.
func (s *Subscriber[T]) Receive() <-chan Message[T] {
	return s.ch
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscriber[T]) Close() {
	s.once.Do(func() {
		s.b.unsubscribe(s.id)
		close(s.ch)
	})
}

// MemoryBroadcaster fans messages out to all active subscribers in-process.
type MemoryBroadcaster[T any] struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscriber[T]
	buffer int
	closed bool
}

// NewMemoryBroadcaster creates a broadcaster with the given per-subscriber
// buffer size.
func NewMemoryBroadcaster[T any](buffer int) *MemoryBroadcaster[T] {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &MemoryBroadcaster[T]{
		subs:   make(map[uuid.UUID]*Subscriber[T]),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber, cleaned up automatically when ctx
// is canceled.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) *Subscriber[T] {
	sub := &Subscriber[T]{
		id: uuid.New(),
		ch: make(chan Message[T], b.buffer),
		b:  b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		sub.once.Do(func() {})
		return sub
	}
	b.subs[sub.id] = sub
	b.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Close()
		}()
	}

	return sub
}

// Broadcast delivers the message to every subscriber without blocking;
// subscribers with a full buffer miss this message.
func (b *MemoryBroadcaster[T]) Broadcast(msg Message[T]) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// Close ends all subscriptions and rejects future broadcasts.
func (b *MemoryBroadcaster[T]) Close() {
	b.mu.Lock()
	subs := make([]*Subscriber[T], 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.closed = true
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (b *MemoryBroadcaster[T]) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, id)
}
