package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of a minted token.
const DefaultTokenTTL = 24 * time.Hour

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies HS256 bearer tokens. It holds no state
// beyond the signing key, so tokens cannot be revoked before expiry.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Mint signs the user's id, email and role with an expiry ttl from now.
func (c *TokenCodec) Mint(user *domain.User) (string, error) {
	now := c.now()
	claims := tokenClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, algorithm, shape and expiry. Every failure is
// reported as domain.ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return Identity{}, domain.ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, domain.ErrInvalidToken
	}
	return Identity{UserID: claims.Subject, Email: claims.Email, Role: role}, nil
}
