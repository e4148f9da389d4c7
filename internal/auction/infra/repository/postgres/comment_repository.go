package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	query := `
        INSERT INTO comments (id, auction_id, account_id, content, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := s.pool.Exec(ctx, query,
		comment.ID,
		comment.AuctionID,
		comment.AccountID,
		comment.Content,
		comment.CreatedAt,
	)
	return mapStoreErr(err)
}

func (s *Store) CommentsForAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Comment, error) {
	query := `
        SELECT id, auction_id, account_id, content, created_at
        FROM comments
        WHERE auction_id = $1
        ORDER BY created_at ASC
    `
	rows, err := s.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment := &domain.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.AuctionID,
			&comment.AccountID,
			&comment.Content,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err)
	}
	return comments, nil
}
