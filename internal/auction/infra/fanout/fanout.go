package fanout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"github.com/openmotors/auctionhouse/internal/shared/pubsub"
	"github.com/openmotors/auctionhouse/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Service bridges the local websocket hub and the shared bus. Local
// subscriber interest is mirrored onto one bus channel per auction, so an
// event published by any process reaches the connections of every process.
// The relay forwards bus payloads verbatim; a duplicate delivery just
// redraws an identical update on the client, which is harmless.
type Service struct {
	hub *websocket.Hub
	bus pubsub.Bus
}

func NewService(hub *websocket.Hub, bus pubsub.Bus) *Service {
	s := &Service{hub: hub, bus: bus}
	hub.OnFirstSubscriber = s.onFirstSubscriber
	hub.OnLastUnsubscriber = s.onLastUnsubscriber
	return s
}

// Publish sends a tagged event to the auction's bus channel. Called after
// the accepting transaction has committed, never inside it.
func (s *Service) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	channel := pubsub.AuctionChannel(event.AuctionID.String())
	if err := s.bus.Publish(ctx, channel, data); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

func (s *Service) onFirstSubscriber(topic string) {
	channel := pubsub.AuctionChannel(topic)
	err := s.bus.Subscribe(context.Background(), channel, func(payload []byte) {
		s.hub.Broadcast(topic, payload)
	})
	if err != nil {
		log.Error("Bus subscribe failed",
			zap.String("channel", channel),
			zap.Error(err),
		)
		return
	}
	log.Debug("Subscribed to bus channel", zap.String("channel", channel))
}

func (s *Service) onLastUnsubscriber(topic string) {
	channel := pubsub.AuctionChannel(topic)
	if err := s.bus.Unsubscribe(context.Background(), channel); err != nil {
		log.Error("Bus unsubscribe failed",
			zap.String("channel", channel),
			zap.Error(err),
		)
		return
	}
	log.Debug("Unsubscribed from bus channel", zap.String("channel", channel))
}
