package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub keeps the registry of live connections grouped by topic (one topic per
// auction) and fans broadcast messages out to every connection in a group.
// A connection can join and leave topics at any time during its life.
type Hub struct {
	// Subscribers per topic.
	topics map[string]map[*Client]bool
	// Topics per client, so a disconnect can leave every group it joined.
	memberships map[*Client]map[string]bool

	broadcast   chan *Message
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription

	// InboundMessages carries raw client messages to module-specific handlers.
	InboundMessages chan *ClientMessage

	// OnFirstSubscriber fires when a topic gains its first local subscriber,
	// OnLastUnsubscriber when it loses its last one. Used to mirror local
	// interest onto the shared bus. Both may be nil.
	OnFirstSubscriber  func(topic string)
	OnLastUnsubscriber func(topic string)
}

// Client represents one websocket connection.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	ID   string
}

type Message struct {
	Topic string
	Data  []byte
}

// ClientMessage wraps an inbound client message with its origin connection.
type ClientMessage struct {
	Client *Client
	Data   []byte
}

type subscription struct {
	client *Client
	topic  string
}

func NewHub() *Hub {
	return &Hub{
		topics:          make(map[string]map[*Client]bool),
		memberships:     make(map[*Client]map[string]bool),
		broadcast:       make(chan *Message, 64),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		subscribe:       make(chan subscription),
		unsubscribe:     make(chan subscription),
		InboundMessages: make(chan *ClientMessage, 64),
	}
}

// Run starts the hub loop. All registry mutation happens here, so no locks
// are needed anywhere else.
func (h *Hub) Run(ctx context.Context) {
	log.Info("WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket hub shutting down")
			return

		case client := <-h.register:
			h.memberships[client] = make(map[string]bool)
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.Int("total_clients", len(h.memberships)),
			)

		case client := <-h.unregister:
			if topics, ok := h.memberships[client]; ok {
				for topic := range topics {
					h.leave(client, topic)
				}
				delete(h.memberships, client)
				close(client.Send)
				log.Info("Client unregistered",
					zap.String("clientID", client.ID),
					zap.Int("total_clients", len(h.memberships)),
				)
			}

		case sub := <-h.subscribe:
			if _, ok := h.memberships[sub.client]; !ok {
				// Disconnect raced the subscribe request.
				continue
			}
			if _, ok := h.topics[sub.topic]; !ok {
				h.topics[sub.topic] = make(map[*Client]bool)
				if h.OnFirstSubscriber != nil {
					h.OnFirstSubscriber(sub.topic)
				}
			}
			h.topics[sub.topic][sub.client] = true
			h.memberships[sub.client][sub.topic] = true
			log.Debug("Client subscribed",
				zap.String("clientID", sub.client.ID),
				zap.String("topic", sub.topic),
			)

		case sub := <-h.unsubscribe:
			h.leave(sub.client, sub.topic)
			if topics, ok := h.memberships[sub.client]; ok {
				delete(topics, sub.topic)
			}

		case message := <-h.broadcast:
			clients, ok := h.topics[message.Topic]
			if !ok {
				continue
			}
			for client := range clients {
				select {
				case client.Send <- message.Data:
				default:
					// Client not draining its queue, drop it.
					for topic := range h.memberships[client] {
						h.leave(client, topic)
					}
					delete(h.memberships, client)
					close(client.Send)
					log.Warn("Slow client dropped",
						zap.String("clientID", client.ID),
						zap.String("topic", message.Topic),
					)
				}
			}
		}
	}
}

// leave removes client from a topic group and fires the last-unsubscriber
// hook when the group empties. Must only be called from the Run loop.
func (h *Hub) leave(client *Client, topic string) {
	clients, ok := h.topics[topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.topics, topic)
		if h.OnLastUnsubscriber != nil {
			h.OnLastUnsubscriber(topic)
		}
		log.Debug("Topic group removed as empty", zap.String("topic", topic))
	}
}

// RegisterClient queues a new connection for registration.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient queues a connection for removal; its subscriptions are
// released as part of the same hub-loop step.
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// SubscribeClient adds the connection to a topic group.
func (h *Hub) SubscribeClient(client *Client, topic string) {
	h.subscribe <- subscription{client: client, topic: topic}
}

// UnsubscribeClient removes the connection from a topic group.
func (h *Hub) UnsubscribeClient(client *Client, topic string) {
	h.unsubscribe <- subscription{client: client, topic: topic}
}

// Broadcast sends data to every connection subscribed to topic.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- &Message{Topic: topic, Data: data}:
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("topic", topic))
	}
}

// ReadPump reads messages from the connection and hands them to the hub's
// inbound channel. Runs as one goroutine per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
			}
			break
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Hub InboundMessages channel is full, dropping message",
				zap.String("clientID", c.ID),
			)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection and keeps
// the connection alive with pings. One goroutine per client; it is the only
// writer on the connection.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("WebSocket write error",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
