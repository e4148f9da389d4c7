package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

func newTestSweeper(store domain.Store) *Sweeper {
	return NewSweeper(store, SweeperConfig{
		Interval: time.Hour,
		Margin:   5 * time.Second,
		Batch:    10,
		Retries:  3,
		Backoff:  time.Millisecond,
	})
}

func TestSweeper_ClosesExpiredAndMarksWinner(t *testing.T) {
	store := newMemStore()
	auction := store.addLiveAuction(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Minute))
	uc := newBidUseCase(store, 5*time.Minute)

	// Seed bids while the auction was still open.
	for _, amount := range []int64{100, 250, 175} {
		bid := domain.NewBid(auction.ID, uuid.New(), amount, time.Now().Add(-90*time.Minute))
		store.mu.Lock()
		store.bids[auction.ID] = append(store.bids[auction.ID], bid)
		store.mu.Unlock()
	}

	sweeper := newTestSweeper(store)
	sweeper.sweepOnce(context.Background())

	snapshot, ok := store.auctionSnapshot(auction.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StateEnded, snapshot.State)

	highest, err := store.HighestBid(context.Background(), auction.ID)
	require.NoError(t, err)
	require.NotNil(t, highest)
	assert.Equal(t, int64(250), highest.Amount)
	require.NotNil(t, highest.IsWinningAt, "highest bid must be flagged winning")

	// No bids sneak in on an ended auction.
	_, err = uc.Execute(context.Background(), PlaceBidInput{
		AuctionID: auction.ID, BidderID: uuid.New(), Amount: 10_000,
	})
	assert.ErrorIs(t, err, domain.ErrAuctionNotLive)
}

func TestSweeper_NoBidsClosesWithoutWinner(t *testing.T) {
	store := newMemStore()
	auction := store.addLiveAuction(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Minute))

	sweeper := newTestSweeper(store)
	sweeper.sweepOnce(context.Background())

	snapshot, ok := store.auctionSnapshot(auction.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StateEnded, snapshot.State)
	assert.Equal(t, int32(0), atomic.LoadInt32(&store.markWinningCalls))
}

func TestSweeper_MarginKeepsFreshAuctionsOpen(t *testing.T) {
	store := newMemStore()
	// Ended two seconds ago: inside the 5s margin, so not yet eligible.
	auction := store.addLiveAuction(time.Now().Add(-time.Hour), time.Now().Add(-2*time.Second))

	sweeper := newTestSweeper(store)
	sweeper.sweepOnce(context.Background())

	snapshot, ok := store.auctionSnapshot(auction.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StateLive, snapshot.State)
}

func TestSweeper_WinnerMarkingRetriesTransientFailures(t *testing.T) {
	store := newMemStore()
	auction := store.addLiveAuction(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Minute))
	bid := domain.NewBid(auction.ID, uuid.New(), 500, time.Now().Add(-time.Hour))
	store.mu.Lock()
	store.bids[auction.ID] = append(store.bids[auction.ID], bid)
	store.mu.Unlock()

	// First two marking attempts fail transiently, the third succeeds.
	atomic.StoreInt32(&store.markWinningFailures, 2)

	sweeper := newTestSweeper(store)
	sweeper.sweepOnce(context.Background())

	highest, err := store.HighestBid(context.Background(), auction.ID)
	require.NoError(t, err)
	require.NotNil(t, highest.IsWinningAt)
	assert.Equal(t, int32(3), atomic.LoadInt32(&store.markWinningCalls))
}

func TestSweeper_WinnerMarkingGivesUpAfterRetries(t *testing.T) {
	store := newMemStore()
	auction := store.addLiveAuction(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Minute))
	bid := domain.NewBid(auction.ID, uuid.New(), 500, time.Now().Add(-time.Hour))
	store.mu.Lock()
	store.bids[auction.ID] = append(store.bids[auction.ID], bid)
	store.mu.Unlock()

	atomic.StoreInt32(&store.markWinningFailures, 100)

	sweeper := newTestSweeper(store)
	sweeper.sweepOnce(context.Background())

	// The auction closes regardless; the winner stays unmarked for manual
	// reconciliation.
	snapshot, _ := store.auctionSnapshot(auction.ID)
	assert.Equal(t, domain.StateEnded, snapshot.State)
	highest, err := store.HighestBid(context.Background(), auction.ID)
	require.NoError(t, err)
	assert.Nil(t, highest.IsWinningAt)
	assert.Equal(t, int32(3), atomic.LoadInt32(&store.markWinningCalls))
}

// Two sweeps racing on the same expired auction: the conditional close makes
// exactly one of them the closer, so the winner is marked exactly once.
func TestSweeper_ConcurrentSweepsCloseOnce(t *testing.T) {
	store := newMemStore()
	auction := store.addLiveAuction(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Minute))
	bid := domain.NewBid(auction.ID, uuid.New(), 750, time.Now().Add(-time.Hour))
	store.mu.Lock()
	store.bids[auction.ID] = append(store.bids[auction.ID], bid)
	store.mu.Unlock()

	a := newTestSweeper(store)
	b := newTestSweeper(store)

	var wg sync.WaitGroup
	for _, s := range []*Sweeper{a, b} {
		wg.Add(1)
		go func(s *Sweeper) {
			defer wg.Done()
			s.sweepOnce(context.Background())
		}(s)
	}
	wg.Wait()

	snapshot, _ := store.auctionSnapshot(auction.ID)
	assert.Equal(t, domain.StateEnded, snapshot.State)
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.markWinningCalls),
		"only the sweep that won the close marks the winner")
}

func TestSweeper_StartStop(t *testing.T) {
	store := newMemStore()
	auction := store.addLiveAuction(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Minute))

	sweeper := NewSweeper(store, SweeperConfig{
		Interval: 10 * time.Millisecond,
		Margin:   5 * time.Second,
		Batch:    10,
		Retries:  3,
		Backoff:  time.Millisecond,
	})
	sweeper.Start(context.Background())

	require.Eventually(t, func() bool {
		snapshot, _ := store.auctionSnapshot(auction.ID)
		return snapshot.State == domain.StateEnded
	}, 2*time.Second, 5*time.Millisecond)

	sweeper.Stop()
}
