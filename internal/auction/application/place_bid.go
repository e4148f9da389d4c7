package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidInput carries the data needed to place a bid.
type PlaceBidInput struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	// Amount in minor currency units.
	Amount int64
}

// PlaceBidUseCase accepts a bid against the current auction state. The
// exclusive row lock taken inside the transaction serializes all concurrent
// bid attempts on the same auction into a total order: the loser of a race
// always observes the winner's bid before its own amount check.
type PlaceBidUseCase struct {
	store domain.Store
	// Anti-sniping window: minimum remaining time guaranteed after any
	// accepted bid.
	window time.Duration
	// Bound on lock-hold time so a stalled store cannot starve other bidders.
	txTimeout time.Duration
}

func NewPlaceBidUseCase(store domain.Store, window, txTimeout time.Duration) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		store:     store,
		window:    window,
		txTimeout: txTimeout,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, in PlaceBidInput) (*domain.Bid, error) {
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	log.Info("Placing bid",
		zap.String("auctionID", in.AuctionID.String()),
		zap.String("bidderID", in.BidderID.String()),
		zap.Int64("amount", in.Amount),
	)

	ctx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	var bid *domain.Bid
	err := uc.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		auction, err := tx.LockAuction(ctx, in.AuctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := auction.CanAcceptBidAt(now); err != nil {
			return err
		}

		// The extension must run before the amount check: it changes the
		// deadline this bidder is racing against, and it has to persist in
		// the same transaction as the bid.
		if newEnd, ok := auction.ExtendedDeadline(now, uc.window); ok {
			if err := tx.ExtendEndDate(ctx, auction.ID, newEnd); err != nil {
				return err
			}
			log.Info("Auction deadline extended",
				zap.String("auctionID", auction.ID.String()),
				zap.Time("oldEndDate", *auction.EndDate),
				zap.Time("newEndDate", newEnd),
			)
			auction.EndDate = &newEnd
		}

		highest, err := tx.HighestBid(ctx, auction.ID)
		if err != nil {
			return err
		}
		if highest != nil && in.Amount <= highest.Amount {
			return domain.ErrAmountTooLow
		}

		bid = domain.NewBid(auction.ID, in.BidderID, in.Amount, now)
		return tx.CreateBid(ctx, bid)
	})
	if err != nil {
		return nil, fmt.Errorf("place bid on auction %s: %w", in.AuctionID, err)
	}

	return bid, nil
}
