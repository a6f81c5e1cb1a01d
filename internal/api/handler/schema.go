package handler

import (
	"math"
	"time"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

type rateRequest struct {
	Rating *int `json:"rating" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address"  validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=admin user store_owner"`
}

type createStoreRequest struct {
	Name    string `json:"name"    validate:"required,max=60"`
	Email   string `json:"email"   validate:"required"`
	Address string `json:"address" validate:"required"`
	OwnerID string `json:"ownerId" validate:"omitempty,uuid"`
}

// --- Response types ---
// Kept separate from domain types so the JSON contract stays stable.

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type storeResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
	UserRating    *int    `json:"userRating"`
}

type adminStoreResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	OwnerID       string  `json:"ownerId,omitempty"`
	OwnerName     string  `json:"ownerName"`
	AverageRating float64 `json:"averageRating"`
}

type createdStoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type countsResponse struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

type ownerStoreResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ownerDashboardResponse struct {
	Store   ownerStoreResponse `json:"store"`
	Ratings []ratingResponse   `json:"ratings"`
}

type indexResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// --- Domain → HTTP response ---

// roundAverage rounds to one decimal place.
func roundAverage(v float64) float64 {
	return math.Round(v*10) / 10
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toStoreResponses(views []domain.StoreView) []storeResponse {
	out := make([]storeResponse, 0, len(views))
	for _, v := range views {
		out = append(out, storeResponse{
			ID:            v.ID,
			Name:          v.Name,
			Email:         v.Email,
			Address:       v.Address,
			AverageRating: roundAverage(v.AverageRating),
			RatingCount:   v.RatingCount,
			UserRating:    v.ViewerRating,
		})
	}
	return out
}

func toAdminStoreResponses(views []domain.AdminStoreView) []adminStoreResponse {
	out := make([]adminStoreResponse, 0, len(views))
	for _, v := range views {
		out = append(out, adminStoreResponse{
			ID:            v.ID,
			Name:          v.Name,
			Email:         v.Email,
			Address:       v.Address,
			OwnerID:       v.OwnerID,
			OwnerName:     v.OwnerName,
			AverageRating: roundAverage(v.AverageRating),
		})
	}
	return out
}

func toCreatedStoreResponse(s *domain.Store) createdStoreResponse {
	return createdStoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt.UTC(),
	}
}

func toOwnerDashboardResponse(d *domain.OwnerDashboard) ownerDashboardResponse {
	ratings := make([]ratingResponse, 0, len(d.Ratings))
	for _, r := range d.Ratings {
		ratings = append(ratings, ratingResponse{
			ID:        r.ID,
			Rating:    r.Score,
			UserID:    r.UserID,
			UserName:  r.UserName,
			UserEmail: r.UserEmail,
			CreatedAt: r.CreatedAt.UTC(),
			UpdatedAt: r.UpdatedAt.UTC(),
		})
	}
	return ownerDashboardResponse{
		Store: ownerStoreResponse{
			ID:            d.Store.ID,
			Name:          d.Store.Name,
			Email:         d.Store.Email,
			Address:       d.Store.Address,
			AverageRating: roundAverage(d.AverageRating),
			RatingCount:   d.RatingCount,
		},
		Ratings: ratings,
	}
}
