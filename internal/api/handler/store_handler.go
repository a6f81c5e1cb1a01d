package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storeratings/ratings-api/internal/api/metrics"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

// StoreHandler serves the store directory and rating submission to any
// signed-in account.
type StoreHandler struct {
	ratings ports.RatingService
}

func NewStoreHandler(ratings ports.RatingService) *StoreHandler {
	return &StoreHandler{ratings: ratings}
}

// List handles GET /api/user/stores.
//
// @Summary      List stores
// @Description  Every store with its average rating and the caller's own rating.
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Substring of name or address"
// @Success      200     {array}   storeResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/user/stores [get]
func (h *StoreHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	views, err := h.ratings.ListStoresForViewer(c.Request().Context(), user.ID, c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoreResponses(views))
}

// Rate handles POST /api/user/stores/:storeId/rate. 201 when the rating is
// new, 200 when it replaced the caller's previous one.
//
// @Summary      Rate a store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        storeId  path      string       true  "Store id"
// @Param        body     body      rateRequest  true  "Score 1-5"
// @Success      200      {object}  messageResponse
// @Success      201      {object}  messageResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/user/stores/{storeId}/rate [post]
func (h *StoreHandler) Rate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storeID := strings.TrimSpace(c.Param("storeId"))
	out, err := h.ratings.Rate(c.Request().Context(), user.ID, storeID, *req.Rating)
	if err != nil {
		return err
	}

	if out.Created {
		metrics.RatingsSubmittedTotal.WithLabelValues("created").Inc()
		return c.JSON(http.StatusCreated, messageResponse{Message: "Rating submitted successfully"})
	}
	metrics.RatingsSubmittedTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Rating updated successfully"})
}
