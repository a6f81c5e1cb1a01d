package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storeratings/ratings-api/internal/core/ports"
)

type OwnerHandler struct {
	ratings ports.RatingService
}

func NewOwnerHandler(ratings ports.RatingService) *OwnerHandler {
	return &OwnerHandler{ratings: ratings}
}

// Dashboard handles GET /api/store-owner/dashboard.
//
// @Summary      Owner dashboard
// @Description  The caller's store, its average rating and every rating with the rater.
// @Tags         store-owner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ownerDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/store-owner/dashboard [get]
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	dash, err := h.ratings.DashboardFor(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOwnerDashboardResponse(dash))
}
