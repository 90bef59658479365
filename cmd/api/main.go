// @title                       Lost & Found Board API
// @version                     1.0
// @description                 Community board for reporting lost and found items.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	_ "github.com/lostfound/board-api/docs"
	"github.com/lostfound/board-api/internal/api"
	"github.com/lostfound/board-api/internal/api/handler"
	"github.com/lostfound/board-api/internal/core/service"
	"github.com/lostfound/board-api/internal/infrastructure/config"
	"github.com/lostfound/board-api/internal/infrastructure/db/mongo"
	"github.com/lostfound/board-api/internal/infrastructure/db/redis"
	"github.com/lostfound/board-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// a malformed .env is worth knowing about; a missing one is normal
		log := logger.Get()
		log.Warn().Err(err).Msg("could not load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, stop)
	stop()
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("api exited")
		os.Exit(1)
	}
}

// run owns every resource it opens; its defers execute before main exits.
func run(ctx context.Context, stop context.CancelFunc) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "lostfound-api",
		Env:     cfg.Env,
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("error disconnecting mongodb")
		}
	}()

	userRepo := mongo.NewUserRepository(db)
	itemRepo := mongo.NewItemRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, itemRepo); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()

	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	}, logger.Component("tokens"))
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	authService := service.NewAuthService(userRepo, tokens, cfg.JWT.BcryptCost, logger.Component("auth"))
	itemService := service.NewItemService(
		itemRepo,
		redis.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL),
		logger.Component("items"),
	)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		ItemService: itemService,
		Tokens:      tokens,
		HealthChecks: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Cookies: handler.CookieConfig{
			Secure: cfg.IsProduction(),
			MaxAge: tokens.RefreshTTL(),
		},
		ClientURL: cfg.ClientURL,
		Logger:    logger.Component("http"),
	})

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting api server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("api server: %w", err)
	default:
		return nil
	}
}
