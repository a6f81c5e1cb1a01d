package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/storeratings/ratings-api/internal/api/middleware"
	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
	"github.com/storeratings/ratings-api/internal/infrastructure/http/handlers"
)

// tokenAuth resolves "Bearer <role>" to an account with that role.
type tokenAuth struct{}

func (tokenAuth) Register(context.Context, ports.RegisterInput) (string, *domain.User, error) {
	return "", nil, domain.NewValidationError("", "all fields are required")
}

func (tokenAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (tokenAuth) ChangePassword(context.Context, string, string, string) error { return nil }

func (tokenAuth) Authenticate(_ context.Context, header string) (*domain.User, error) {
	if header == "" {
		return nil, domain.ErrMissingToken
	}
	role, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || !domain.Role(role).Valid() {
		return nil, domain.ErrInvalidToken
	}
	return &domain.User{ID: "u-" + role, Role: domain.Role(role)}, nil
}

type emptyRatings struct{}

func (emptyRatings) ListStoresForViewer(context.Context, string, string) ([]domain.StoreView, error) {
	return nil, nil
}

func (emptyRatings) Rate(context.Context, string, string, int) (domain.RatingOutcome, error) {
	return domain.RatingOutcome{Created: true}, nil
}

func (emptyRatings) DashboardFor(context.Context, string) (*domain.OwnerDashboard, error) {
	return nil, domain.ErrStoreNotFound
}

type emptyAdmin struct{}

func (emptyAdmin) Counts(context.Context) (domain.PlatformCounts, error) {
	return domain.PlatformCounts{TotalUsers: 1}, nil
}

func (emptyAdmin) SearchUsers(context.Context, string, string) ([]domain.User, error) {
	return nil, nil
}

func (emptyAdmin) SearchStores(context.Context, string) ([]domain.AdminStoreView, error) {
	return nil, nil
}

func (emptyAdmin) CreateUser(context.Context, ports.CreateUserInput) (*domain.User, error) {
	return nil, domain.ErrEmailTaken
}

func (emptyAdmin) CreateStore(context.Context, ports.CreateStoreInput) (*domain.Store, error) {
	return nil, domain.ErrOwnerHasStore
}

func newTestRouter(limiter *middleware.RateLimiter) http.Handler {
	return NewRouter(Deps{
		Auth:         tokenAuth{},
		Ratings:      emptyRatings{},
		Admin:        emptyAdmin{},
		Readiness:    map[string]handlers.Check{"postgres": func(context.Context) error { return nil }},
		Limiter:      limiter,
		Registerer:   prometheus.NewRegistry(),
		AllowOrigins: []string{"http://localhost:5173"},
		Log:          zerolog.Nop(),
	})
}

func serve(h http.Handler, method, target, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Gates(t *testing.T) {
	h := newTestRouter(nil)

	cases := []struct {
		name   string
		method string
		target string
		auth   string
		body   string
		code   int
	}{
		{"index", http.MethodGet, "/", "", "", http.StatusOK},
		{"liveness", http.MethodGet, "/api/health", "", "", http.StatusOK},
		{"readiness", http.MethodGet, "/api/health/ready", "", "", http.StatusOK},
		{"no token", http.MethodGet, "/api/user/stores", "", "", http.StatusUnauthorized},
		{"bad scheme", http.MethodGet, "/api/user/stores", "Token user", "", http.StatusUnauthorized},
		{"user lists stores", http.MethodGet, "/api/user/stores", "Bearer user", "", http.StatusOK},
		{"owner lists stores", http.MethodGet, "/api/user/stores", "Bearer store_owner", "", http.StatusOK},
		{"rate", http.MethodPost, "/api/user/stores/s-1/rate", "Bearer user", `{"rating":4}`, http.StatusCreated},
		{"user on admin", http.MethodGet, "/api/admin/dashboard", "Bearer user", "", http.StatusForbidden},
		{"admin dashboard", http.MethodGet, "/api/admin/dashboard", "Bearer admin", "", http.StatusOK},
		{"admin on owner", http.MethodGet, "/api/store-owner/dashboard", "Bearer admin", "", http.StatusForbidden},
		{"owner without store", http.MethodGet, "/api/store-owner/dashboard", "Bearer store_owner", "", http.StatusNotFound},
		{"bad login", http.MethodPost, "/api/login", "", `{"email":"a@b.co","password":"x"}`, http.StatusBadRequest},
		{"duplicate account", http.MethodPost, "/api/admin/users", "Bearer admin",
			`{"name":"Someone With A Long Name","email":"a@b.co","password":"Passw0rd!","address":"x","role":"user"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nope", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := serve(h, tc.method, tc.target, tc.auth, tc.body)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.name, tc.code, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_InvalidTokenBody(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodGet, "/api/user/stores", "Bearer expired", "")

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "invalid token" {
		t.Fatalf("unexpected error body %q", body.Error)
	}
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	h := newTestRouter(middleware.NewRateLimiter(0.001, 1, zerolog.Nop()))

	first := serve(h, http.MethodPost, "/api/login", "", `{"email":"a@b.co","password":"x"}`)
	if first.Code != http.StatusBadRequest {
		t.Fatalf("expected first attempt to reach the handler, got %d", first.Code)
	}
	second := serve(h, http.MethodPost, "/api/login", "", `{"email":"a@b.co","password":"x"}`)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	// Authenticated routes are not behind the limiter.
	if rec := serve(h, http.MethodGet, "/api/user/stores", "Bearer user", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
