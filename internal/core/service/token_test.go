package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	user := &domain.User{ID: "u-1", Email: "a@example.com", Role: domain.RoleStoreOwner}

	token, err := codec.Mint(user)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	id, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.UserID != "u-1" || id.Email != "a@example.com" || id.Role != domain.RoleStoreOwner {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	if c := NewTokenCodec("secret", 0); c.ttl != DefaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", c.ttl)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	mintedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec("secret", 24*time.Hour)
	codec.now = fixedClock(mintedAt)

	token, err := codec.Mint(&domain.User{ID: "u-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	codec.now = fixedClock(mintedAt.Add(23 * time.Hour))
	if _, err := codec.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	codec.now = fixedClock(mintedAt.Add(25 * time.Hour))
	if _, err := codec.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenCodec_Rejects(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	valid := jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	sign := func(method jwt.SigningMethod, claims jwt.Claims, key any) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	cases := map[string]string{
		"garbage":       "not.a.token",
		"empty":         "",
		"wrong secret":  sign(jwt.SigningMethodHS256, tokenClaims{Role: "user", RegisteredClaims: valid}, []byte("other")),
		"wrong alg":     sign(jwt.SigningMethodHS384, tokenClaims{Role: "user", RegisteredClaims: valid}, []byte("secret")),
		"unknown role":  sign(jwt.SigningMethodHS256, tokenClaims{Role: "root", RegisteredClaims: valid}, []byte("secret")),
		"missing exp":   sign(jwt.SigningMethodHS256, tokenClaims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}}, []byte("secret")),
		"missing sub":   sign(jwt.SigningMethodHS256, tokenClaims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: valid.ExpiresAt}}, []byte("secret")),
		"unsigned none": sign(jwt.SigningMethodNone, tokenClaims{Role: "user", RegisteredClaims: valid}, jwt.UnsafeAllowNoneSignatureType),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := codec.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
