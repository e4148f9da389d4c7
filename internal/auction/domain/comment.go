package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment length bounds, matching the public comment form.
const (
	MinCommentLength = 1
	MaxCommentLength = 420
)

// Comment is append-only and interleaves with bids in the activity feed.
type Comment struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	AccountID uuid.UUID
	Content   string
	CreatedAt time.Time
}

// NewComment validates the content bounds and creates a comment.
func NewComment(auctionID, accountID uuid.UUID, content string, createdAt time.Time) (*Comment, error) {
	if len(content) < MinCommentLength || len(content) > MaxCommentLength {
		return nil, ErrInvalidContent
	}
	return &Comment{
		ID:        uuid.New(),
		AuctionID: auctionID,
		AccountID: accountID,
		Content:   content,
		CreatedAt: createdAt,
	}, nil
}
