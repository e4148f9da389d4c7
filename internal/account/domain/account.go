package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrAccountNotFound = errors.New("account not found")

// Account is the engine's view of a marketplace account. Registration and
// authentication live elsewhere; the engine only resolves ids to display
// names.
type Account struct {
	ID       uuid.UUID
	Username string
}

type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// UsernamesByIDs resolves display names in bulk for feed rendering.
	UsernamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
