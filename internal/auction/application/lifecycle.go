package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
	"go.uber.org/zap"
)

// LifecycleUseCase drives every human-initiated lifecycle transition. The
// store's conditional updates are the guard: a transition whose precondition
// state does not hold changes zero rows and performs no writes.
type LifecycleUseCase struct {
	store domain.Store
	// Cap on concurrently featured live auctions. The check is a read before
	// the transition, so two simultaneous go-lives can overshoot it slightly;
	// that is tolerated.
	featuredCap int
	// How long an auction runs once live.
	duration time.Duration
}

func NewLifecycleUseCase(store domain.Store, featuredCap int, duration time.Duration) *LifecycleUseCase {
	return &LifecycleUseCase{
		store:       store,
		featuredCap: featuredCap,
		duration:    duration,
	}
}

// Submit creates a new auction in the SUBMITTED state.
func (uc *LifecycleUseCase) Submit(ctx context.Context, sellerID uuid.UUID, car domain.CarInformation) (*domain.Auction, error) {
	auction := domain.NewSubmittedAuction(sellerID, car)
	if err := uc.store.CreateAuction(ctx, auction); err != nil {
		return nil, fmt.Errorf("submit auction: %w", err)
	}
	log.Info("Auction submitted",
		zap.String("auctionID", auction.ID.String()),
		zap.String("sellerID", sellerID.String()),
	)
	return auction, nil
}

// AcceptSubmitted is the admin approval moving SUBMITTED to PENDING_CHANGES.
func (uc *LifecycleUseCase) AcceptSubmitted(ctx context.Context, id uuid.UUID) error {
	return uc.transition(ctx, id, domain.StateSubmitted, domain.StatePendingChanges)
}

// Resubmit moves a seller-edited auction from PENDING_CHANGES back to
// UNDER_REVIEW.
func (uc *LifecycleUseCase) Resubmit(ctx context.Context, id, sellerID uuid.UUID) error {
	auction, err := uc.store.AuctionByID(ctx, id)
	if err != nil {
		return err
	}
	if auction.SellerID != sellerID {
		return domain.ErrAuctionNotFound
	}
	return uc.transition(ctx, id, domain.StatePendingChanges, domain.StateUnderReview)
}

// RequestChanges sends an auction under review back to the seller.
func (uc *LifecycleUseCase) RequestChanges(ctx context.Context, id uuid.UUID) error {
	return uc.transition(ctx, id, domain.StateUnderReview, domain.StatePendingChanges)
}

// GoLive moves UNDER_REVIEW to LIVE, assigning the schedule and the permanent
// pretty id. The featured flag is granted only while the configured cap on
// concurrently featured live auctions has room.
func (uc *LifecycleUseCase) GoLive(ctx context.Context, id uuid.UUID, featured bool) error {
	auction, err := uc.store.AuctionByID(ctx, id)
	if err != nil {
		return err
	}
	if auction.State != domain.StateUnderReview {
		return domain.ErrInvalidStateTransition
	}

	now := time.Now()
	if featured {
		count, err := uc.store.CountLiveFeatured(ctx, now)
		if err != nil {
			return err
		}
		if count >= uc.featuredCap {
			log.Warn("Featured cap reached, going live unfeatured",
				zap.String("auctionID", id.String()),
				zap.Int("cap", uc.featuredCap),
			)
			featured = false
		}
	}

	prettyID := domain.GeneratePrettyID(auction.Car, now)
	start := now
	end := now.Add(uc.duration)

	ok, err := uc.store.GoLive(ctx, id, prettyID, start, end, featured)
	if err != nil {
		return fmt.Errorf("go live on auction %s: %w", id, err)
	}
	if !ok {
		// The state moved between our read and the conditional update.
		return domain.ErrInvalidStateTransition
	}

	log.Info("Auction is live",
		zap.String("auctionID", id.String()),
		zap.String("prettyID", prettyID),
		zap.Time("endDate", end),
		zap.Bool("featured", featured),
	)
	return nil
}

func (uc *LifecycleUseCase) transition(ctx context.Context, id uuid.UUID, from, to domain.State) error {
	ok, err := uc.store.TransitionState(ctx, id, from, to)
	if err != nil {
		return fmt.Errorf("transition auction %s: %w", id, err)
	}
	if ok {
		log.Info("Auction state changed",
			zap.String("auctionID", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return nil
	}

	// Zero rows changed: either the auction does not exist or it is not in
	// the expected state.
	if _, err := uc.store.AuctionByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			return domain.ErrAuctionNotFound
		}
		return err
	}
	return domain.ErrInvalidStateTransition
}
