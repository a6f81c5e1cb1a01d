package domain

import "errors"

// Authentication and authorization.
var (
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)

// Accounts and stores.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrUnknownRole            = errors.New("unknown role")
	ErrStoreNotFound          = errors.New("store not found")
	ErrStoreEmailTaken        = errors.New("store email already registered")
	ErrOwnerHasStore          = errors.New("owner already has a store")
	ErrMultipleStoresForOwner = errors.New("multiple stores for owner")
)

// Ratings.
var ErrInvalidScore = errors.New("rating must be between 1 and 5")

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
