package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storeratings/ratings-api/internal/api/middleware"
	"github.com/storeratings/ratings-api/internal/core/domain"
)

// currentUser returns the account the Auth middleware resolved. Its absence
// means the route was mounted without Auth.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
