package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is immutable once created. Bids are never edited or deleted, only
// superseded by a higher bid or flagged winning after the auction ends.
type Bid struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	// Amount is in minor currency units (cents), strictly positive.
	Amount      int64
	IsWinningAt *time.Time
	CreatedAt   time.Time
}

// NewBid creates a bid stamped with the given creation time.
func NewBid(auctionID, bidderID uuid.UUID, amount int64, createdAt time.Time) *Bid {
	return &Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: createdAt,
	}
}
