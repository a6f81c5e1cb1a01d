package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	panic("not used by handlers")
}

type stubRatingService struct {
	listFn      func(ctx context.Context, viewerID, search string) ([]domain.StoreView, error)
	rateFn      func(ctx context.Context, viewerID, storeID string, score int) (domain.RatingOutcome, error)
	dashboardFn func(ctx context.Context, ownerID string) (*domain.OwnerDashboard, error)
}

func (s *stubRatingService) ListStoresForViewer(ctx context.Context, viewerID, search string) ([]domain.StoreView, error) {
	return s.listFn(ctx, viewerID, search)
}

func (s *stubRatingService) Rate(ctx context.Context, viewerID, storeID string, score int) (domain.RatingOutcome, error) {
	return s.rateFn(ctx, viewerID, storeID, score)
}

func (s *stubRatingService) DashboardFor(ctx context.Context, ownerID string) (*domain.OwnerDashboard, error) {
	return s.dashboardFn(ctx, ownerID)
}

type stubAdminService struct {
	countsFn       func(ctx context.Context) (domain.PlatformCounts, error)
	searchUsersFn  func(ctx context.Context, search, role string) ([]domain.User, error)
	searchStoresFn func(ctx context.Context, search string) ([]domain.AdminStoreView, error)
	createUserFn   func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	createStoreFn  func(ctx context.Context, in ports.CreateStoreInput) (*domain.Store, error)
}

func (s *stubAdminService) Counts(ctx context.Context) (domain.PlatformCounts, error) {
	return s.countsFn(ctx)
}

func (s *stubAdminService) SearchUsers(ctx context.Context, search, role string) ([]domain.User, error) {
	return s.searchUsersFn(ctx, search, role)
}

func (s *stubAdminService) SearchStores(ctx context.Context, search string) ([]domain.AdminStoreView, error) {
	return s.searchStoresFn(ctx, search)
}

func (s *stubAdminService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubAdminService) CreateStore(ctx context.Context, in ports.CreateStoreInput) (*domain.Store, error) {
	return s.createStoreFn(ctx, in)
}

// newContext builds an echo context with the validator registered and, when
// user is non-nil, the account the Auth middleware would have injected.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
		c.Set("role", user.Role)
	}
	return c, rec
}

var viewer = &domain.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Viewer Person Of Record", Email: "viewer@example.com", Role: domain.RoleUser}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
