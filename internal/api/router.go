package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storeratings/ratings-api/docs"
	"github.com/storeratings/ratings-api/internal/api/handler"
	"github.com/storeratings/ratings-api/internal/api/middleware"
	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
	"github.com/storeratings/ratings-api/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Auth    ports.AuthService
	Ratings ports.RatingService
	Admin   ports.AdminService

	// Readiness probes keyed by dependency name.
	Readiness map[string]handlers.Check

	// Limiter throttles the public login and register routes. Nil disables it.
	Limiter *middleware.RateLimiter

	// Registerer receives the HTTP request metrics. Nil means the default
	// registry.
	Registerer prometheus.Registerer

	AllowOrigins []string
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ratings",
		Registerer: registerer,
	}))

	// --- Probes, metrics and docs (no auth required) ---
	e.GET("/", handler.Index)
	e.GET("/api/health", handlers.NewHealthHandler().Liveness)
	e.GET("/api/health/ready", handlers.NewReadinessHandler(d.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	storeHandler := handler.NewStoreHandler(d.Ratings)
	ownerHandler := handler.NewOwnerHandler(d.Ratings)
	adminHandler := handler.NewAdminHandler(d.Admin)

	authMW := middleware.Auth(d.Auth)

	// --- Public auth routes ---
	api := e.Group("/api")
	var public []echo.MiddlewareFunc
	if d.Limiter != nil {
		public = append(public, d.Limiter.Middleware())
	}
	api.POST("/login", authHandler.Login, public...)
	api.POST("/register", authHandler.Register, public...)
	api.POST("/change-password", authHandler.ChangePassword, authMW)

	// --- Any signed-in account ---
	user := api.Group("/user", authMW)
	user.GET("/stores", storeHandler.List)
	user.POST("/stores/:storeId/rate", storeHandler.Rate)

	// --- Admin ---
	admin := api.Group("/admin", authMW, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/stores", adminHandler.Stores)
	admin.POST("/stores", adminHandler.CreateStore)

	// --- Store owner ---
	owner := api.Group("/store-owner", authMW, middleware.RBAC(domain.RoleStoreOwner))
	owner.GET("/dashboard", ownerHandler.Dashboard)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
