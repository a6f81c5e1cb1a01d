package ports

import (
	"context"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// RegisterInput carries self-registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// AuthService covers credentials and the authentication gate.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// Authenticate resolves an Authorization header value to the current
	// stored account.
	Authenticate(ctx context.Context, header string) (*domain.User, error)
}

// LoginThrottle counts failed logins per email within a fixed window.
type LoginThrottle interface {
	Locked(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// Notifier sends account notifications.
type Notifier interface {
	Welcome(ctx context.Context, name, email string) error
}
