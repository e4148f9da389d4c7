package pubsub

import "context"

// Bus is the cross-process event fan-out primitive. Delivery is at-least-once
// and ordered per channel; subscribers must tolerate the rare duplicate.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe registers fn for every payload published on channel. Only one
	// handler per channel is kept per process; the local hub does the fan-out
	// to individual connections.
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
	Unsubscribe(ctx context.Context, channel string) error
	Close() error
}

// AuctionChannel names the bus channel carrying one auction's events. The
// name is deterministic so every process subscribes to the same channel.
func AuctionChannel(auctionID string) string {
	return "auction:" + auctionID
}
