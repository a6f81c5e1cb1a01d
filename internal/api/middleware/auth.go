package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

const (
	userKey = "user"
	roleKey = "role"
)

// Authenticator resolves the Authorization header to the stored account.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*domain.User, error)
}

// Auth validates the bearer token, reloads the account and injects it into
// the context. Token failures short-circuit with 401.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := authn.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if errors.Is(err, domain.ErrMissingToken) || errors.Is(err, domain.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
				}
				return err
			}

			c.Set(userKey, user)
			c.Set(roleKey, user.Role)

			return next(c)
		}
	}
}

// UserFromContext returns the account injected by Auth.
func UserFromContext(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userKey).(*domain.User)
	return user, ok && user != nil
}
