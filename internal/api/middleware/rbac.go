package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(roleKey).(domain.Role)
			if err := domain.Authorize(role, allowedRoles...); err != nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
			}
			return next(c)
		}
	}
}
