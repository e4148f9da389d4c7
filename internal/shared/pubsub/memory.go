package pubsub

import (
	"context"
	"sync"
)

// MemoryBus is a process-local Bus used in tests and single-node setups.
// It keeps the per-channel publish ordering the Redis bus provides.
type MemoryBus struct {
	mu       sync.Mutex
	handlers map[string]func(payload []byte)
	closed   bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string]func(payload []byte))}
}

func (b *MemoryBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	fn := b.handlers[channel]
	b.mu.Unlock()

	if fn != nil {
		fn(payload)
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, channel string, fn func(payload []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[channel] = fn
	return nil
}

func (b *MemoryBus) Unsubscribe(_ context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, channel)
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string]func(payload []byte))
	b.closed = true
	return nil
}

// Subscribed reports whether a handler is registered for channel.
func (b *MemoryBus) Subscribed(channel string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handlers[channel]
	return ok
}
