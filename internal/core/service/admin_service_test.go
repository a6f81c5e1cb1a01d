package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

func newTestAdminService(users *stubUserRepo, stores *stubStoreRepo, counts domain.PlatformCounts) *AdminService {
	svc := NewAdminService(users, stores, stubStats{counts: counts}, zerolog.Nop())
	svc.hashCost = bcrypt.MinCost
	return svc
}

func newEmptyStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{ratings: newStubRatingRepo()}
}

func TestAdminService_Counts(t *testing.T) {
	want := domain.PlatformCounts{TotalUsers: 3, TotalStores: 2, TotalRatings: 7}
	svc := newTestAdminService(newStubUserRepo(), newEmptyStoreRepo(), want)

	got, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestAdminService_CreateUser(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAdminService(users, newEmptyStoreRepo(), domain.PlatformCounts{})

	in := ports.CreateUserInput{Name: validName, Email: "Owner@Example.com", Password: validPassword, Address: validAddress, Role: "store_owner"}
	created, err := svc.CreateUser(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.Role != domain.RoleStoreOwner || created.Email != "owner@example.com" {
		t.Fatalf("unexpected user: %+v", created)
	}

	if _, err := svc.CreateUser(context.Background(), in); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	in.Email = "other@example.com"
	in.Role = "superuser"
	var verr *domain.ValidationError
	if _, err := svc.CreateUser(context.Background(), in); !errors.As(err, &verr) || verr.Field != "role" {
		t.Fatalf("expected role ValidationError, got %v", err)
	}
}

func TestAdminService_CreateUser_ValidatesTrimmedName(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAdminService(users, newEmptyStoreRepo(), domain.PlatformCounts{})

	in := ports.CreateUserInput{Name: "   Short Name Person   ", Email: "pad@example.com", Password: validPassword, Address: validAddress, Role: "user"}
	var verr *domain.ValidationError
	if _, err := svc.CreateUser(context.Background(), in); !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name ValidationError, got %v", err)
	}
	if len(users.users) != 0 {
		t.Fatalf("expected nothing stored, got %d accounts", len(users.users))
	}

	in.Name = "  " + validName + "  "
	created, err := svc.CreateUser(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.Name != validName {
		t.Fatalf("expected trimmed name %q, got %q", validName, created.Name)
	}
}

func TestAdminService_SearchUsers(t *testing.T) {
	users := newStubUserRepo()
	users.put(domain.User{ID: "1", Name: "Admin Person", Email: "admin@example.com", Role: domain.RoleAdmin})
	users.put(domain.User{ID: "2", Name: "Normal Person", Email: "user@example.com", Role: domain.RoleUser})
	users.put(domain.User{ID: "3", Name: "Another User", Email: "another@example.com", Role: domain.RoleUser})
	svc := newTestAdminService(users, newEmptyStoreRepo(), domain.PlatformCounts{})

	got, err := svc.SearchUsers(context.Background(), "person", "")
	if err != nil {
		t.Fatalf("SearchUsers returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	got, err = svc.SearchUsers(context.Background(), "", "user")
	if err != nil {
		t.Fatalf("SearchUsers returned error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Another User" {
		t.Fatalf("unexpected role filtered result: %+v", got)
	}

	var verr *domain.ValidationError
	if _, err := svc.SearchUsers(context.Background(), "", "root"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown role, got %v", err)
	}
}

func TestAdminService_CreateStore(t *testing.T) {
	users := newStubUserRepo()
	ownerID := uuid.NewString()
	plainID := uuid.NewString()
	users.put(domain.User{ID: ownerID, Name: "Store Owner", Role: domain.RoleStoreOwner})
	users.put(domain.User{ID: plainID, Name: "Plain User", Role: domain.RoleUser})
	stores := newEmptyStoreRepo()
	svc := newTestAdminService(users, stores, domain.PlatformCounts{})

	in := ports.CreateStoreInput{Name: "Corner Cafe", Email: "cafe@example.com", Address: "1 Main St", OwnerID: ownerID}
	created, err := svc.CreateStore(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateStore returned error: %v", err)
	}
	if created.ID == "" || created.OwnerID != ownerID {
		t.Fatalf("unexpected store: %+v", created)
	}

	in.Email = "second@example.com"
	if _, err := svc.CreateStore(context.Background(), in); !errors.Is(err, domain.ErrOwnerHasStore) {
		t.Fatalf("expected ErrOwnerHasStore, got %v", err)
	}

	var verr *domain.ValidationError
	in.OwnerID = plainID
	if _, err := svc.CreateStore(context.Background(), in); !errors.As(err, &verr) || verr.Field != "ownerId" {
		t.Fatalf("expected ownerId ValidationError for non-owner role, got %v", err)
	}
	in.OwnerID = uuid.NewString()
	if _, err := svc.CreateStore(context.Background(), in); !errors.As(err, &verr) || verr.Field != "ownerId" {
		t.Fatalf("expected ownerId ValidationError for unknown owner, got %v", err)
	}

	in.OwnerID = ""
	if _, err := svc.CreateStore(context.Background(), in); err != nil {
		t.Fatalf("store without owner should be allowed: %v", err)
	}
	if len(stores.created) != 2 {
		t.Fatalf("expected 2 stores created, got %d", len(stores.created))
	}
}
