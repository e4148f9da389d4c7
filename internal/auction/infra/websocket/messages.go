package websocket

import "github.com/google/uuid"

// Action is the verb of a client subscription message.
type Action string

const (
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
)

// ClientActionMessage is what a connected client sends to join or leave an
// auction's event stream.
type ClientActionMessage struct {
	Action    Action    `json:"action"`
	AuctionID uuid.UUID `json:"auctionId"`
}

// ServerErrorMessage is sent back to one client when its message cannot be
// processed.
type ServerErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
