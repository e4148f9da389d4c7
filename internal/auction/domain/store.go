package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tx is the transactional view handed to RunInTx callbacks. LockAuction
// acquires an exclusive row lock on the auction that serializes every
// concurrent bid attempt on it, while still permitting inserts of rows that
// reference the auction (bids, comments).
type Tx interface {
	LockAuction(ctx context.Context, id uuid.UUID) (*Auction, error)
	HighestBid(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
	CreateBid(ctx context.Context, bid *Bid) error
	ExtendEndDate(ctx context.Context, id uuid.UUID, endDate time.Time) error
}

// Store is the persistence contract of the engine. Any operation may fail
// with ErrStoreUnavailable on transient trouble; constraint violations abort
// the enclosing transaction. Conditional updates return false when the
// guard did not hold, so callers can use them as optimistic-concurrency
// checks without a second read.
type Store interface {
	// RunInTx scopes fn to a transaction. Any error returned by fn rolls the
	// whole transaction back; no partial writes survive.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	CreateAuction(ctx context.Context, auction *Auction) error
	AuctionByID(ctx context.Context, id uuid.UUID) (*Auction, error)

	// TransitionState moves the auction from -> to only if it is currently in
	// from. Returns false when zero rows changed.
	TransitionState(ctx context.Context, id uuid.UUID, from, to State) (bool, error)

	// GoLive atomically moves UNDER_REVIEW -> LIVE assigning the schedule,
	// pretty id and featured flag. Returns false when the auction was not
	// under review.
	GoLive(ctx context.Context, id uuid.UUID, prettyID string, start, end time.Time, featured bool) (bool, error)

	CountLiveFeatured(ctx context.Context, now time.Time) (int, error)

	// ExpiredLiveAuctions returns up to limit LIVE auctions whose end date
	// passed before cutoff.
	ExpiredLiveAuctions(ctx context.Context, cutoff time.Time, limit int) ([]*Auction, error)

	HighestBid(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
	BidsForAuction(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)

	// MarkBidWinning sets the winning timestamp once; false when the bid was
	// already marked.
	MarkBidWinning(ctx context.Context, bidID uuid.UUID, at time.Time) (bool, error)

	CreateComment(ctx context.Context, comment *Comment) error
	CommentsForAuction(ctx context.Context, auctionID uuid.UUID) ([]*Comment, error)
}
