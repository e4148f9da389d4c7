package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

// memStore is an in-memory domain.Store for tests. A per-auction mutex
// emulates the row lock the real store takes with FOR NO KEY UPDATE, so the
// concurrency properties of the engine can be exercised without Postgres.
type memStore struct {
	mu       sync.Mutex
	auctions map[uuid.UUID]*domain.Auction
	bids     map[uuid.UUID][]*domain.Bid
	comments map[uuid.UUID][]*domain.Comment
	locks    map[uuid.UUID]*sync.Mutex

	// Failure injection: remaining transient failures per operation.
	highestBidFailures  int32
	markWinningFailures int32
	markWinningCalls    int32
}

func newMemStore() *memStore {
	return &memStore{
		auctions: make(map[uuid.UUID]*domain.Auction),
		bids:     make(map[uuid.UUID][]*domain.Bid),
		comments: make(map[uuid.UUID][]*domain.Comment),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *memStore) addAuction(state domain.State, start, end *time.Time) *domain.Auction {
	auction := &domain.Auction{
		ID:        uuid.New(),
		State:     state,
		SellerID:  uuid.New(),
		StartDate: start,
		EndDate:   end,
		Car:       domain.CarInformation{ModelYear: 1999, Brand: "Saab", Model: "9-3", Trim: "Viggen"},
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.auctions[auction.ID] = auction
	s.mu.Unlock()
	return auction
}

func (s *memStore) addLiveAuction(start, end time.Time) *domain.Auction {
	return s.addAuction(domain.StateLive, &start, &end)
}

func (s *memStore) auctionSnapshot(id uuid.UUID) (domain.Auction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, ok := s.auctions[id]
	if !ok {
		return domain.Auction{}, false
	}
	return *auction, true
}

func (s *memStore) acceptedBids(auctionID uuid.UUID) []*domain.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Bid(nil), s.bids[auctionID]...)
}

func (s *memStore) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[id] == nil {
		s.locks[id] = &sync.Mutex{}
	}
	return s.locks[id]
}

func (s *memStore) highest(auctionID uuid.UUID) *domain.Bid {
	bids := s.bids[auctionID]
	var best *domain.Bid
	for _, b := range bids {
		if best == nil || b.Amount > best.Amount ||
			(b.Amount == best.Amount && b.CreatedAt.Before(best.CreatedAt)) {
			best = b
		}
	}
	return best
}

type memTx struct {
	s        *memStore
	locked   []*sync.Mutex
	newBids  []*domain.Bid
	endDates map[uuid.UUID]time.Time
}

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	tx := &memTx{s: s, endDates: make(map[uuid.UUID]time.Time)}
	// Row locks release only after the commit is applied, like the real
	// transaction.
	defer func() {
		for _, m := range tx.locked {
			m.Unlock()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, end := range tx.endDates {
		e := end
		s.auctions[id].EndDate = &e
	}
	for _, b := range tx.newBids {
		s.bids[b.AuctionID] = append(s.bids[b.AuctionID], b)
	}
	return nil
}

func (t *memTx) LockAuction(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	m := t.s.lockFor(id)
	m.Lock()
	t.locked = append(t.locked, m)

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	auction, ok := t.s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	snapshot := *auction
	return &snapshot, nil
}

func (t *memTx) HighestBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.highest(auctionID), nil
}

func (t *memTx) CreateBid(ctx context.Context, bid *domain.Bid) error {
	t.newBids = append(t.newBids, bid)
	return nil
}

func (t *memTx) ExtendEndDate(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	t.endDates[id] = endDate
	return nil
}

func (s *memStore) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[auction.ID] = auction
	return nil
}

func (s *memStore) AuctionByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, ok := s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	snapshot := *auction
	return &snapshot, nil
}

func (s *memStore) TransitionState(ctx context.Context, id uuid.UUID, from, to domain.State) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, ok := s.auctions[id]
	if !ok || auction.State != from {
		return false, nil
	}
	auction.State = to
	return true, nil
}

func (s *memStore) GoLive(ctx context.Context, id uuid.UUID, prettyID string, start, end time.Time, featured bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, ok := s.auctions[id]
	if !ok || auction.State != domain.StateUnderReview {
		return false, nil
	}
	auction.State = domain.StateLive
	auction.PrettyID = prettyID
	auction.StartDate = &start
	auction.EndDate = &end
	auction.Featured = featured
	return true, nil
}

func (s *memStore) CountLiveFeatured(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, a := range s.auctions {
		if a.Featured && a.State == domain.StateLive && a.EndDate != nil && a.EndDate.After(now) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) ExpiredLiveAuctions(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Auction
	for _, a := range s.auctions {
		if len(out) >= limit {
			break
		}
		if a.State == domain.StateLive && a.EndDate != nil && a.EndDate.Before(cutoff) {
			snapshot := *a
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

func (s *memStore) HighestBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	if atomic.AddInt32(&s.highestBidFailures, -1) >= 0 {
		return nil, fmt.Errorf("%w: injected", domain.ErrStoreUnavailable)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highest(auctionID), nil
}

func (s *memStore) BidsForAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Bid(nil), s.bids[auctionID]...), nil
}

func (s *memStore) MarkBidWinning(ctx context.Context, bidID uuid.UUID, at time.Time) (bool, error) {
	atomic.AddInt32(&s.markWinningCalls, 1)
	if atomic.AddInt32(&s.markWinningFailures, -1) >= 0 {
		return false, fmt.Errorf("%w: injected", domain.ErrStoreUnavailable)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bids := range s.bids {
		for _, b := range bids {
			if b.ID == bidID {
				if b.IsWinningAt != nil {
					return false, nil
				}
				t := at
				b.IsWinningAt = &t
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *memStore) CreateComment(ctx context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.AuctionID] = append(s.comments[comment.AuctionID], comment)
	return nil
}

func (s *memStore) CommentsForAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Comment(nil), s.comments[auctionID]...), nil
}
