package fanout

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe delivery.
type Message[T any] struct {
	Data T
}

// Subscription receives messages published on a Bus. Each subscription is
// independently closable; closing one never affects the others.
type Subscription[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.RWMutex
}

// Receive returns the channel messages are delivered on. The channel is
// closed when the subscription or its bus is closed.
func (s *Subscription[T]) Receive() <-chan Message[T] {
	return s.ch
}

// Close closes the subscription and releases its channel.
// Close is idempotent and safe to call multiple times.
func (s *Subscription[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *Subscription[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Bus is an in-memory publish/subscribe registry. Publishing never blocks:
// messages are dropped for subscribers whose buffers are full. All methods
// are safe for concurrent use.
type Bus[T any] struct {
	subs      map[*Subscription[T]]struct{}
	buffer    int
	closed    bool
	mu        sync.RWMutex
	cleanupWg sync.WaitGroup
}

// NewBus creates a bus whose subscriptions buffer up to buffer messages.
// A minimum buffer of 1 is enforced so sends stay non-blocking.
func NewBus[T any](buffer int) *Bus[T] {
	return &Bus[T]{
		subs:   make(map[*Subscription[T]]struct{}),
		buffer: max(buffer, 1),
	}
}

// Subscribe registers a new subscription that receives every subsequent
// publish. The subscription is torn down automatically when ctx is cancelled.
// Subscribing on a closed bus returns an already-closed subscription.
func (b *Bus[T]) Subscribe(ctx context.Context) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription[T]{ch: make(chan Message[T], b.buffer)}

	if b.closed {
		_ = sub.Close()
		return sub
	}

	b.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			<-ctx.Done()
			b.unsubscribe(sub)
		}()
	}

	return sub
}

// Publish delivers msg to every active subscription in registration-set
// order. Subscriptions that cannot accept the message are dropped from the
// registry rather than blocking the publisher.
func (b *Bus[T]) Publish(ctx context.Context, data T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	msg := Message[T]{Data: data}
	for sub := range b.subs {
		if !sub.send(msg) {
			// Remove slow or closed subscriptions without holding up this
			// publish; the write lock is taken on a separate goroutine.
			go b.unsubscribe(sub)
		}
	}

	return nil
}

// Len reports the number of active subscriptions.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close shuts down the bus and closes every subscription.
// It is safe to call Close multiple times.
func (b *Bus[T]) Close() error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return nil
	}

	b.closed = true
	for sub := range b.subs {
		_ = sub.Close()
	}
	clear(b.subs)
	b.mu.Unlock()

	// Wait for context-cancellation goroutines so Close never races an
	// in-flight unsubscribe.
	b.cleanupWg.Wait()

	return nil
}

func (b *Bus[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, sub)
	_ = sub.Close()
}
