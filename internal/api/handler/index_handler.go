package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Index handles GET / with a short service description.
//
// @Summary      Service index
// @Tags         health
// @Produce      json
// @Success      200  {object}  indexResponse
// @Router       / [get]
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, indexResponse{
		Message: "Store Ratings Backend API",
		Status:  "running",
		Endpoints: map[string]string{
			"health":      "/api/health",
			"login":       "/api/login",
			"register":    "/api/register",
			"admin":       "/api/admin/*",
			"user":        "/api/user/*",
			"store_owner": "/api/store-owner/*",
		},
	})
}
