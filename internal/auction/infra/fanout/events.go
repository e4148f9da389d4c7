package fanout

import (
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

// EventKind tags a fan-out event.
type EventKind string

const (
	EventBid     EventKind = "bid"
	EventComment EventKind = "comment"
)

// Event is the tagged payload relayed to every connection subscribed to an
// auction, across all server processes.
type Event struct {
	Type      EventKind `json:"type"`
	ID        uuid.UUID `json:"id"`
	AuctionID uuid.UUID `json:"auctionId"`
	CreatedAt time.Time `json:"createdAt"`

	// Bid fields.
	Amount            int64  `json:"amount,omitempty"`
	BidderDisplayName string `json:"bidderDisplayName,omitempty"`

	// Comment fields.
	Content           string `json:"content,omitempty"`
	AuthorDisplayName string `json:"authorDisplayName,omitempty"`
}

func NewBidEvent(bid *domain.Bid, bidderDisplayName string) Event {
	return Event{
		Type:              EventBid,
		ID:                bid.ID,
		AuctionID:         bid.AuctionID,
		CreatedAt:         bid.CreatedAt,
		Amount:            bid.Amount,
		BidderDisplayName: bidderDisplayName,
	}
}

func NewCommentEvent(comment *domain.Comment, authorDisplayName string) Event {
	return Event{
		Type:              EventComment,
		ID:                comment.ID,
		AuctionID:         comment.AuctionID,
		CreatedAt:         comment.CreatedAt,
		Content:           comment.Content,
		AuthorDisplayName: authorDisplayName,
	}
}
