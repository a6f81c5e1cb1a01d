package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

const welcomeTimeout = 10 * time.Second

// AuthService implements registration, login, password change and the
// bearer-token gate.
type AuthService struct {
	users    ports.UserRepository
	tokens   *TokenCodec
	throttle ports.LoginThrottle
	notifier ports.Notifier
	logger   zerolog.Logger
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService wires the service. throttle and notifier may be nil.
func NewAuthService(users ports.UserRepository, tokens *TokenCodec, throttle ports.LoginThrottle, notifier ports.Notifier, logger zerolog.Logger) *AuthService {
	if throttle == nil {
		throttle = noThrottle{}
	}
	if notifier == nil {
		notifier = noNotifier{}
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		throttle: throttle,
		notifier: notifier,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates a role "user" account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Address == "" {
		return "", nil, domain.NewValidationError("", "all fields are required")
	}
	if err := validateAccount(in.Name, in.Email, in.Password, in.Address); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: string(hash),
		Address:      in.Address,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Mint(created)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	s.sendWelcome(created.Name, created.Email)
	return token, created, nil
}

// sendWelcome runs detached from the request; a failure is logged only.
func (s *AuthService) sendWelcome(name, email string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
		defer cancel()
		if err := s.notifier.Welcome(ctx, name, email); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("welcome email failed")
		}
	}()
}

// Login checks credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("", "email and password are required")
	}
	email = domain.NormalizeEmail(email)

	locked, err := s.throttle.Locked(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login throttle unavailable")
	}
	if locked {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle reset failed")
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}
	return token, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle unavailable")
	}
}

// dummy is compared against when the email is unknown so that both failure
// paths pay for one bcrypt comparison.
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
	})
	return s.dummyHash
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.NewValidationError("", "current and new password are required")
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

// Authenticate resolves an Authorization header to the current stored
// account. The account is reloaded on every call so a role or existence
// change takes effect before the token expires.
func (s *AuthService) Authenticate(ctx context.Context, header string) (*domain.User, error) {
	if header == "" {
		return nil, domain.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, domain.ErrInvalidToken
	}

	identity, err := s.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, identity.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func validateAccount(name, email, password, address string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	if err := domain.ValidateAddress(address); err != nil {
		return err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	return domain.ValidatePassword(password)
}

type noThrottle struct{}

func (noThrottle) Locked(context.Context, string) (bool, error) { return false, nil }
func (noThrottle) Fail(context.Context, string) error           { return nil }
func (noThrottle) Reset(context.Context, string) error          { return nil }

type noNotifier struct{}

func (noNotifier) Welcome(context.Context, string, string) error { return nil }
