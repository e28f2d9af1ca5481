package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cotowork/userservice/internal/app"
	"github.com/cotowork/userservice/internal/auth"
	"github.com/cotowork/userservice/internal/jobs"
	"github.com/cotowork/userservice/internal/observability"
	"github.com/cotowork/userservice/internal/platform/cache"
	"github.com/cotowork/userservice/internal/platform/db"
	"github.com/cotowork/userservice/internal/token"
	"github.com/cotowork/userservice/internal/units"
	"github.com/cotowork/userservice/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	verifier := auth.NewVerifier(cfg.VerifyConcurrency, cfg.BcryptCost)
	statusCache := auth.NewStatusCache(redisClient, cfg.StatusCacheTTL)
	metrics := observability.NewMetrics()

	events := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, logger)
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, verifier, tokens, statusCache, events, logger)
	authService.UseMetrics(metrics)
	authHandler := auth.NewHandler(logger, authService, cfg.LoginRateLimit)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, verifier, statusCache, logger)
	usersHandler := users.NewHandler(logger, usersService)

	unitsRepo := units.NewRepository(dbpool)
	unitsService := units.NewService(unitsRepo, logger)
	unitsHandler := units.NewHandler(logger, unitsService)

	authenticator := auth.NewAuthenticator(tokens, logger, app.PublicPrefixes)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Authenticator: authenticator,
		AuthHandler:   authHandler,
		UsersHandler:  usersHandler,
		UnitsHandler:  unitsHandler,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
