package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
	"go.uber.org/zap"
)

// SweeperConfig bundles the sweep tunables.
type SweeperConfig struct {
	// Interval between sweeps.
	Interval time.Duration
	// Margin past the end date before an auction is considered expired. Must
	// exceed the worst-case bid-transaction duration, so a bid that commits
	// while the sweep runs cannot race the close.
	Margin time.Duration
	// Batch is the maximum number of auctions closed per sweep.
	Batch int
	// Retries bounds winner-marking attempts on transient store failures.
	Retries int
	// Backoff is the fixed wait between winner-marking attempts.
	Backoff time.Duration
}

// Sweeper is the recurring task that closes expired auctions exactly once and
// determines their winners. It is a lifecycle-managed task with explicit
// Start/Stop; running several instances concurrently is safe because the
// close is a conditional update.
type Sweeper struct {
	store  domain.Store
	cfg    SweeperConfig
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(store domain.Store, cfg SweeperConfig) *Sweeper {
	return &Sweeper{
		store: store,
		cfg:   cfg,
		done:  make(chan struct{}),
	}
}

// Start launches the sweep loop. It runs until Stop is called or ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		defer close(s.done)
		log.Info("Auction sweeper started",
			zap.Duration("interval", s.cfg.Interval),
			zap.Duration("margin", s.cfg.Margin),
		)
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Auction sweeper stopped")
				return
			case <-ticker.C:
				s.sweepOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// sweepOnce closes one batch of expired auctions. A failure on one auction
// never blocks the rest of the batch.
func (s *Sweeper) sweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.Margin)
	auctions, err := s.store.ExpiredLiveAuctions(ctx, cutoff, s.cfg.Batch)
	if err != nil {
		log.Error("Sweep query failed", zap.Error(err))
		return
	}

	for _, auction := range auctions {
		s.closeAuction(ctx, auction.ID)
	}
}

func (s *Sweeper) closeAuction(ctx context.Context, auctionID uuid.UUID) {
	ended, err := s.store.TransitionState(ctx, auctionID, domain.StateLive, domain.StateEnded)
	if err != nil {
		log.Error("Failed to end auction",
			zap.String("auctionID", auctionID.String()),
			zap.Error(err),
		)
		return
	}
	if !ended {
		// Another sweeper instance closed it first.
		log.Debug("Auction already ended elsewhere", zap.String("auctionID", auctionID.String()))
		return
	}

	log.Info("Auction ended", zap.String("auctionID", auctionID.String()))

	if err := s.markWinner(ctx, auctionID); err != nil {
		// Operator attention needed: the auction is closed but the winner is
		// unmarked until manually reconciled.
		log.Error("Winner marking exhausted retries",
			zap.String("auctionID", auctionID.String()),
			zap.Error(err),
		)
	}
}

// markWinner flags the highest bid as winning, retrying transient failures a
// bounded number of times with a fixed backoff.
func (s *Sweeper) markWinner(ctx context.Context, auctionID uuid.UUID) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.Backoff):
			}
		}

		highest, err := s.store.HighestBid(ctx, auctionID)
		if err != nil {
			lastErr = err
			continue
		}
		if highest == nil {
			// No bids: the auction closes without a winner, not an error.
			log.Info("Auction ended without bids", zap.String("auctionID", auctionID.String()))
			return nil
		}

		marked, err := s.store.MarkBidWinning(ctx, highest.ID, time.Now())
		if err != nil {
			lastErr = err
			continue
		}
		if marked {
			log.Info("Winning bid marked",
				zap.String("auctionID", auctionID.String()),
				zap.String("bidID", highest.ID.String()),
				zap.Int64("amount", highest.Amount),
			)
		}
		return nil
	}
	return lastErr
}
