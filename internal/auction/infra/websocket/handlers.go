package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/shared/logger"
	ws "github.com/openmotors/auctionhouse/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler processes the auction module's inbound websocket
// messages: subscribe/unsubscribe requests for auction event streams.
type AuctionWSHandler struct {
	hub *ws.Hub
}

func NewAuctionWSHandler(hub *ws.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{hub: hub}
}

// Handler returns the fiber handler for the websocket endpoint. Each
// connection gets a read and a write pump; the read pump returning
// unregisters the client, which releases every auction subscription it held.
func (h *AuctionWSHandler) Handler(ctx context.Context) fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		client := &ws.Client{
			Hub:  h.hub,
			Conn: conn,
			Send: make(chan []byte, 64),
			ID:   uuid.NewString(),
		}
		h.hub.RegisterClient(client)
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	})
}

// ListenForMessages drains the hub's inbound channel. Runs as one goroutine
// for the process lifetime.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.hub.InboundMessages:
			h.processMessage(msg.Client, msg.Data)
		}
	}
}

func (h *AuctionWSHandler) processMessage(client *ws.Client, data []byte) {
	var msg ClientActionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	if msg.AuctionID == uuid.Nil {
		h.sendErrorToClient(client, "missing auction id")
		return
	}

	switch msg.Action {
	case ActionSubscribe:
		h.hub.SubscribeClient(client, msg.AuctionID.String())
	case ActionUnsubscribe:
		h.hub.UnsubscribeClient(client, msg.AuctionID.String())
	default:
		h.sendErrorToClient(client, "unknown action")
	}
}

func (h *AuctionWSHandler) sendErrorToClient(client *ws.Client, message string) {
	data, err := json.Marshal(ServerErrorMessage{Type: "error", Error: message})
	if err != nil {
		log.Error("failed to marshal ServerErrorMessage", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full, dropping error message",
			zap.String("clientID", client.ID))
	}
}
