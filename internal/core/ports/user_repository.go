package ports

import (
	"context"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// UserFilter narrows an admin account search. Role is the zero value when
// no role filter applies.
type UserFilter struct {
	Search string
	Role   domain.Role
}

// UserRepository defines persistence for accounts.
type UserRepository interface {
	// Create inserts a new account. Returns domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Search returns accounts ordered by name, then id.
	Search(ctx context.Context, filter UserFilter) ([]domain.User, error)
}
