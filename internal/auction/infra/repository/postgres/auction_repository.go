package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

const auctionColumns = `id, state, seller_id, pretty_id, featured, start_date, end_date,
       model_year, car_brand, car_model, trim, created_at, updated_at`

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	auction := &domain.Auction{}
	var prettyID *string
	err := row.Scan(
		&auction.ID,
		&auction.State,
		&auction.SellerID,
		&prettyID,
		&auction.Featured,
		&auction.StartDate,
		&auction.EndDate,
		&auction.Car.ModelYear,
		&auction.Car.Brand,
		&auction.Car.Model,
		&auction.Car.Trim,
		&auction.CreatedAt,
		&auction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, mapStoreErr(err)
	}
	if prettyID != nil {
		auction.PrettyID = *prettyID
	}
	return auction, nil
}

func (s *Store) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (id, state, seller_id, model_year, car_brand, car_model, trim)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := s.pool.Exec(ctx, query,
		auction.ID,
		auction.State,
		auction.SellerID,
		auction.Car.ModelYear,
		auction.Car.Brand,
		auction.Car.Model,
		auction.Car.Trim,
	)
	return mapStoreErr(err)
}

func (s *Store) AuctionByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`
	return scanAuction(s.pool.QueryRow(ctx, query, id))
}

// TransitionState is the optimistic-concurrency guard used by the lifecycle
// and the sweeper: the update only applies while the auction is still in the
// expected state, and the affected-row count tells the caller who won.
func (s *Store) TransitionState(ctx context.Context, id uuid.UUID, from, to domain.State) (bool, error) {
	query := `
        UPDATE auctions
        SET state = $3, updated_at = NOW()
        WHERE id = $1 AND state = $2
    `
	tag, err := s.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, mapStoreErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GoLive(ctx context.Context, id uuid.UUID, prettyID string, start, end time.Time, featured bool) (bool, error) {
	query := `
        UPDATE auctions
        SET state = $2, pretty_id = $3, start_date = $4, end_date = $5, featured = $6, updated_at = NOW()
        WHERE id = $1 AND state = $7
    `
	tag, err := s.pool.Exec(ctx, query,
		id, domain.StateLive, prettyID, start, end, featured, domain.StateUnderReview,
	)
	if err != nil {
		return false, mapStoreErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountLiveFeatured(ctx context.Context, now time.Time) (int, error) {
	query := `
        SELECT COUNT(*) FROM auctions
        WHERE featured AND state = $1 AND end_date > $2
    `
	var count int
	if err := s.pool.QueryRow(ctx, query, domain.StateLive, now).Scan(&count); err != nil {
		return 0, mapStoreErr(err)
	}
	return count, nil
}

func (s *Store) ExpiredLiveAuctions(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE state = $1 AND end_date < $2
        LIMIT $3
    `
	rows, err := s.pool.Query(ctx, query, domain.StateLive, cutoff, limit)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err)
	}
	return auctions, nil
}

// LockAuction acquires the per-auction serialization point: an exclusive row
// lock that blocks other lockers but, unlike FOR UPDATE, still permits
// inserting rows that reference the auction.
func (t *storeTx) LockAuction(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1 FOR NO KEY UPDATE`
	return scanAuction(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) ExtendEndDate(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	query := `UPDATE auctions SET end_date = $2, updated_at = NOW() WHERE id = $1`
	_, err := t.tx.Exec(ctx, query, id, endDate)
	return mapStoreErr(err)
}
