package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

const storeNameMaxLen = 60

// AdminService backs the administrator dashboard and management routes.
type AdminService struct {
	users    ports.UserRepository
	stores   ports.StoreRepository
	stats    ports.StatsRepository
	logger   zerolog.Logger
	hashCost int
}

func NewAdminService(users ports.UserRepository, stores ports.StoreRepository, stats ports.StatsRepository, logger zerolog.Logger) *AdminService {
	return &AdminService{
		users:    users,
		stores:   stores,
		stats:    stats,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AdminService) Counts(ctx context.Context) (domain.PlatformCounts, error) {
	return s.stats.Counts(ctx)
}

// SearchUsers matches search against name, email or address. A non-empty
// role narrows the result to that exact role.
func (s *AdminService) SearchUsers(ctx context.Context, search, role string) ([]domain.User, error) {
	filter := ports.UserFilter{Search: strings.TrimSpace(search)}
	if role != "" {
		r, err := domain.ParseRole(role)
		if err != nil {
			return nil, domain.NewValidationError("role", "unknown role filter")
		}
		filter.Role = r
	}
	return s.users.Search(ctx, filter)
}

func (s *AdminService) SearchStores(ctx context.Context, search string) ([]domain.AdminStoreView, error) {
	return s.stores.SearchAdmin(ctx, strings.TrimSpace(search))
}

// CreateUser creates an account with any role.
func (s *AdminService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Address == "" || in.Role == "" {
		return nil, domain.NewValidationError("", "all fields are required")
	}
	if err := validateAccount(in.Name, in.Email, in.Password, in.Address); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: string(hash),
		Address:      in.Address,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("account created by admin")
	return created, nil
}

// CreateStore creates a store, optionally owned by a store_owner account
// that does not already own one.
func (s *AdminService) CreateStore(ctx context.Context, in ports.CreateStoreInput) (*domain.Store, error) {
	name := strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if name == "" || in.Email == "" || in.Address == "" {
		return nil, domain.NewValidationError("", "name, email and address are required")
	}
	if utf8.RuneCountInString(name) > storeNameMaxLen {
		return nil, domain.NewValidationError("name", fmt.Sprintf("name must be at most %d characters", storeNameMaxLen))
	}
	if err := domain.ValidateAddress(in.Address); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	if in.OwnerID != "" {
		if err := s.checkOwner(ctx, in.OwnerID); err != nil {
			return nil, err
		}
	}

	created, err := s.stores.Create(ctx, &domain.Store{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     domain.NormalizeEmail(in.Email),
		Address:   in.Address,
		OwnerID:   in.OwnerID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("store_id", created.ID).Str("owner_id", created.OwnerID).Msg("store created")
	return created, nil
}

func (s *AdminService) checkOwner(ctx context.Context, ownerID string) error {
	if _, err := uuid.Parse(ownerID); err != nil {
		return domain.NewValidationError("ownerId", "owner not found")
	}
	owner, err := s.users.FindByID(ctx, ownerID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NewValidationError("ownerId", "owner not found")
	}
	if err != nil {
		return err
	}
	if owner.Role != domain.RoleStoreOwner {
		return domain.NewValidationError("ownerId", "owner must have the store_owner role")
	}
	return nil
}
