package application

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

// FeedItemKind tags a feed entry as a bid or a comment.
type FeedItemKind string

const (
	FeedItemBid     FeedItemKind = "bid"
	FeedItemComment FeedItemKind = "comment"
)

// FeedItem is one entry of the auction activity feed, where comments and
// bids interleave by creation time.
type FeedItem struct {
	ID        uuid.UUID
	Kind      FeedItemKind
	AccountID uuid.UUID
	// Content holds the comment text; empty for bids.
	Content string
	// Amount holds the bid amount in minor units; zero for comments.
	Amount    int64
	CreatedAt time.Time
}

// FeedUseCase exposes the read paths of an auction: the interleaved activity
// feed and the current highest bid.
type FeedUseCase struct {
	store domain.Store
}

func NewFeedUseCase(store domain.Store) *FeedUseCase {
	return &FeedUseCase{store: store}
}

// Feed returns bids and comments for an auction ordered by creation time
// ascending.
func (uc *FeedUseCase) Feed(ctx context.Context, auctionID uuid.UUID) ([]FeedItem, error) {
	if _, err := uc.store.AuctionByID(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := uc.store.BidsForAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	comments, err := uc.store.CommentsForAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(bids)+len(comments))
	for _, b := range bids {
		items = append(items, FeedItem{
			ID:        b.ID,
			Kind:      FeedItemBid,
			AccountID: b.BidderID,
			Amount:    b.Amount,
			CreatedAt: b.CreatedAt,
		})
	}
	for _, c := range comments {
		items = append(items, FeedItem{
			ID:        c.ID,
			Kind:      FeedItemComment,
			AccountID: c.AccountID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// CurrentBid returns the current highest bid, or nil when none exists.
// Reading outside any lock is safe: bids are append-only and the amount is
// monotonic, so read-committed latest-highest never goes backwards.
func (uc *FeedUseCase) CurrentBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	return uc.store.HighestBid(ctx, auctionID)
}
