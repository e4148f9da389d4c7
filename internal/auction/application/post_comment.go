package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

// PostCommentUseCase appends a comment to an auction's activity feed.
type PostCommentUseCase struct {
	store domain.Store
}

func NewPostCommentUseCase(store domain.Store) *PostCommentUseCase {
	return &PostCommentUseCase{store: store}
}

func (uc *PostCommentUseCase) Execute(ctx context.Context, auctionID, accountID uuid.UUID, content string) (*domain.Comment, error) {
	if _, err := uc.store.AuctionByID(ctx, auctionID); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(auctionID, accountID, content, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("post comment on auction %s: %w", auctionID, err)
	}
	return comment, nil
}
