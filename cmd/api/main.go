//go:generate swag init -g cmd/api/main.go -d ../.. -o ../../docs

//	@title						Store Ratings API
//	@version					1.0
//	@description				Accounts, stores and 1-5 star ratings with role-based dashboards.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/storeratings/ratings-api/internal/api"
	"github.com/storeratings/ratings-api/internal/api/middleware"
	"github.com/storeratings/ratings-api/internal/core/ports"
	"github.com/storeratings/ratings-api/internal/core/service"
	"github.com/storeratings/ratings-api/internal/infrastructure/config"
	mongostore "github.com/storeratings/ratings-api/internal/infrastructure/db/mongo"
	"github.com/storeratings/ratings-api/internal/infrastructure/db/postgres"
	redisstore "github.com/storeratings/ratings-api/internal/infrastructure/db/redis"
	"github.com/storeratings/ratings-api/internal/infrastructure/http/handlers"
	"github.com/storeratings/ratings-api/internal/infrastructure/notify"
	"github.com/storeratings/ratings-api/internal/infrastructure/queue"
	"github.com/storeratings/ratings-api/internal/infrastructure/scheduler"
	"github.com/storeratings/ratings-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "ratings-api",
	})

	// --- PostgreSQL: accounts, stores, ratings ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.URL,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info().Msg("postgres migrations applied")

	// --- MongoDB: rating audit trail ---
	mongoClient, auditDB, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	auditRepo := mongostore.NewAuditRepository(auditDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("could not ensure audit indexes")
	}

	// --- Redis: login throttle ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Background work ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)

	stats := postgres.NewStatsRepository(db)
	gauges, err := scheduler.NewGaugeRefresher(cfg.GaugeRefreshSpec, stats, logger.Component("gauges"))
	if err != nil {
		return err
	}
	gauges.Start()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger.Component("ratelimit"))
	limiter.StartSweeper(workerCtx)

	// --- Services ---
	users := postgres.NewUserRepository(db)
	stores := postgres.NewStoreRepository(db)
	ratings := postgres.NewRatingRepository(db)

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(
		users,
		service.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL),
		redisstore.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		notifier,
		logger.Component("auth"),
	)
	ratingService := service.NewRatingService(stores, ratings, dispatcher, logger.Component("ratings"))
	adminService := service.NewAdminService(users, stores, stats, logger.Component("admin"))

	e := api.NewRouter(api.Deps{
		Auth:    authService,
		Ratings: ratingService,
		Admin:   adminService,
		Readiness: map[string]handlers.Check{
			"postgres": handlers.PostgresCheck(db),
			"mongodb":  handlers.MongoCheck(auditDB),
			"redis":    handlers.RedisCheck(rdb),
		},
		Limiter:      limiter,
		AllowOrigins: []string{cfg.FrontendURL, "http://localhost:3000"},
		Log:          log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// In-flight requests are done. Audit workers flush their buffers before
	// returning.
	cancelWorkers()
	dispatcher.Wait()
	<-gauges.Stop().Done()

	log.Info().Msg("shutdown complete")
	return nil
}

// newNotifier picks Brevo when an API key is configured and a logging
// no-op otherwise.
func newNotifier(cfg *config.Config, log zerolog.Logger) (ports.Notifier, error) {
	if cfg.Mail.BrevoAPIKey == "" {
		log.Info().Msg("BREVO_API_KEY not set, welcome emails disabled")
		return notify.NewLogNotifier(logger.Component("notify")), nil
	}
	brevo, err := notify.NewBrevoNotifier(notify.Config{
		APIKey:      cfg.Mail.BrevoAPIKey,
		SenderName:  cfg.Mail.SenderName,
		SenderEmail: cfg.Mail.SenderEmail,
		LoginURL:    cfg.FrontendURL + "/login",
	})
	if err != nil {
		return nil, err
	}
	return brevo, nil
}
