package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

const bidColumns = `id, auction_id, bidder_id, amount, is_winning_at, created_at`

func scanBid(row pgx.Row) (*domain.Bid, error) {
	bid := &domain.Bid{}
	err := row.Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.BidderID,
		&bid.Amount,
		&bid.IsWinningAt,
		&bid.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No bids yet, which is common and not an error.
			return nil, nil
		}
		return nil, mapStoreErr(err)
	}
	return bid, nil
}

// highestBid orders by amount with the earlier bid winning ties, although
// ties cannot normally occur under the strict-increase rule.
func highestBid(ctx context.Context, q querier, auctionID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE auction_id = $1
        ORDER BY amount DESC, created_at ASC
        LIMIT 1
    `
	return scanBid(q.QueryRow(ctx, query, auctionID))
}

func (s *Store) HighestBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	return highestBid(ctx, s.pool, auctionID)
}

func (t *storeTx) HighestBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	return highestBid(ctx, t.tx, auctionID)
}

func (t *storeTx) CreateBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := t.tx.Exec(ctx, query,
		bid.ID,
		bid.AuctionID,
		bid.BidderID,
		bid.Amount,
		bid.CreatedAt,
	)
	return mapStoreErr(err)
}

func (s *Store) BidsForAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE auction_id = $1
        ORDER BY created_at ASC
    `
	rows, err := s.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err)
	}
	return bids, nil
}

// MarkBidWinning sets the winning timestamp at most once; the IS NULL guard
// keeps retries idempotent.
func (s *Store) MarkBidWinning(ctx context.Context, bidID uuid.UUID, at time.Time) (bool, error) {
	query := `
        UPDATE bids
        SET is_winning_at = $2
        WHERE id = $1 AND is_winning_at IS NULL
    `
	tag, err := s.pool.Exec(ctx, query, bidID, at)
	if err != nil {
		return false, mapStoreErr(err)
	}
	return tag.RowsAffected() > 0, nil
}
