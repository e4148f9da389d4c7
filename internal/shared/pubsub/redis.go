package pubsub

import (
	"context"
	"sync"

	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// RedisBus implements Bus on top of Redis pub/sub. A single subscriber
// connection carries every channel this process listens on; a dispatch
// goroutine routes incoming messages to the registered handler.
type RedisBus struct {
	client *redis.Client

	mu       sync.Mutex
	sub      *redis.PubSub
	handlers map[string]func(payload []byte)
}

// NewRedisBus connects to Redis and verifies the connection with a ping.
func NewRedisBus(ctx context.Context, addr, password string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{
		client:   client,
		handlers: make(map[string]func(payload []byte)),
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub == nil {
		b.sub = b.client.Subscribe(ctx, channel)
		go b.dispatch()
	} else if err := b.sub.Subscribe(ctx, channel); err != nil {
		return err
	}
	b.handlers[channel] = fn
	return nil
}

func (b *RedisBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, channel)
	if b.sub == nil {
		return nil
	}
	return b.sub.Unsubscribe(ctx, channel)
}

func (b *RedisBus) Close() error {
	b.mu.Lock()
	if b.sub != nil {
		_ = b.sub.Close()
		b.sub = nil
	}
	b.mu.Unlock()
	return b.client.Close()
}

// dispatch routes bus messages to per-channel handlers. It exits when the
// subscriber connection is closed.
func (b *RedisBus) dispatch() {
	ch := b.sub.Channel()
	for msg := range ch {
		b.mu.Lock()
		fn := b.handlers[msg.Channel]
		b.mu.Unlock()

		if fn == nil {
			// Unsubscribe raced with an in-flight delivery, drop it.
			log.Debug("dropping message for unsubscribed channel",
				zap.String("channel", msg.Channel))
			continue
		}
		fn([]byte(msg.Payload))
	}
}
