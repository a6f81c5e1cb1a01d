package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

type recordingSeeder struct {
	users    []ports.CreateUserInput
	stores   []ports.CreateStoreInput
	err      error
	existing map[string]*domain.User
}

func (s *recordingSeeder) CreateUser(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.users = append(s.users, in)
	return &domain.User{ID: "u-1", Email: in.Email, Role: domain.Role(in.Role)}, nil
}

func (s *recordingSeeder) CreateStore(_ context.Context, in ports.CreateStoreInput) (*domain.Store, error) {
	s.stores = append(s.stores, in)
	return &domain.Store{ID: "s-1", Name: in.Name}, nil
}

func (s *recordingSeeder) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.existing[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-name", "Platform Administrator One", "-email", "admin@example.com", "-address", "1 Main St"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.role != "admin" {
		t.Fatalf("expected admin default, got %q", opts.role)
	}

	if _, err := parseFlags([]string{"-name", "x"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected missing flags error")
	}

	_, err = parseFlags([]string{"-name", "n", "-email", "e", "-address", "a", "-store-name", "Shop"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "store_owner") {
		t.Fatalf("expected store owner error, got %v", err)
	}
}

func TestSeed_OwnerWithStore(t *testing.T) {
	s := &recordingSeeder{}
	var out bytes.Buffer
	opts := options{
		name: "Corner Shop Owner Person", email: "owner@example.com", address: "2 High St",
		role: "store_owner", storeName: "Corner", storeEmail: "corner@example.com", storeAddress: "2 High St",
	}

	if err := seed(context.Background(), s, opts, "Passw0rd!", &out); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(s.users) != 1 || s.users[0].Password != "Passw0rd!" || s.users[0].Role != "store_owner" {
		t.Fatalf("unexpected user input %+v", s.users)
	}
	if len(s.stores) != 1 || s.stores[0].OwnerID != "u-1" {
		t.Fatalf("store must be owned by the new account: %+v", s.stores)
	}
	if !strings.Contains(out.String(), "created store") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSeed_PropagatesError(t *testing.T) {
	s := &recordingSeeder{err: domain.ErrEmailTaken}
	err := seed(context.Background(), s, options{name: "n", email: "e", address: "a", role: "admin"}, "p", &bytes.Buffer{})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSeed_ReusesOwnerLeftByFailedRun(t *testing.T) {
	s := &recordingSeeder{
		err: domain.ErrEmailTaken,
		existing: map[string]*domain.User{
			"owner@example.com": {ID: "u-7", Email: "owner@example.com", Role: domain.RoleStoreOwner},
		},
	}
	var out bytes.Buffer
	opts := options{
		name: "Corner Shop Owner Person", email: "Owner@Example.com", address: "2 High St",
		role: "store_owner", storeName: "Corner", storeEmail: "corner@example.com", storeAddress: "2 High St",
	}

	if err := seed(context.Background(), s, opts, "Passw0rd!", &out); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(s.stores) != 1 || s.stores[0].OwnerID != "u-7" {
		t.Fatalf("store must be owned by the existing account: %+v", s.stores)
	}
	if !strings.Contains(out.String(), "reusing") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSeed_DoesNotReuseOtherRoles(t *testing.T) {
	s := &recordingSeeder{
		err: domain.ErrEmailTaken,
		existing: map[string]*domain.User{
			"owner@example.com": {ID: "u-8", Email: "owner@example.com", Role: domain.RoleUser},
		},
	}
	opts := options{
		name: "Corner Shop Owner Person", email: "owner@example.com", address: "2 High St",
		role: "store_owner", storeName: "Corner", storeEmail: "corner@example.com", storeAddress: "2 High St",
	}

	err := seed(context.Background(), s, opts, "Passw0rd!", &bytes.Buffer{})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(s.stores) != 0 {
		t.Fatalf("no store expected, got %+v", s.stores)
	}
}

func TestPromptPassword_Terminal(t *testing.T) {
	origRead, origTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTerm })
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("Secr3t!pw"), nil }

	var out bytes.Buffer
	pw, err := promptPassword(os.Stdin, &out)
	if err != nil || pw != "Secr3t!pw" {
		t.Fatalf("unexpected password %q, %v", pw, err)
	}
	if !strings.HasPrefix(out.String(), "Password: ") {
		t.Fatalf("expected prompt, got %q", out.String())
	}
}

func TestPromptPassword_Pipe(t *testing.T) {
	origTerm := isTerminal
	t.Cleanup(func() { isTerminal = origTerm })
	isTerminal = func(int) bool { return false }

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	_, _ = w.WriteString("Piped#Pass1\nignored\n")
	_ = w.Close()
	defer r.Close()

	pw, err := promptPassword(r, &bytes.Buffer{})
	if err != nil || pw != "Piped#Pass1" {
		t.Fatalf("unexpected password %q, %v", pw, err)
	}
}
