// @title          Expense Tracker API
// @version        1.0
// @description    Personal expense tracking with ownership-scoped categories and expenses.
// @BasePath       /api
//
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/expensetrack/expense-api/internal/api"
	"github.com/expensetrack/expense-api/internal/core/ports"
	"github.com/expensetrack/expense-api/internal/core/service"
	"github.com/expensetrack/expense-api/internal/infrastructure/config"
	"github.com/expensetrack/expense-api/internal/infrastructure/db/mongo"
	"github.com/expensetrack/expense-api/internal/infrastructure/db/redis"
	"github.com/expensetrack/expense-api/internal/infrastructure/http/handlers"
	"github.com/expensetrack/expense-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "expense-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	principalRepo := mongo.NewPrincipalRepository(db)
	categoryRepo := mongo.NewCategoryRepository(db)
	expenseRepo := mongo.NewExpenseRepository(db)

	if err := mongo.EnsureIndexes(ctx, principalRepo, categoryRepo, expenseRepo); err != nil {
		return err
	}

	probes := []handlers.Check{handlers.MongoCheck(db)}

	var lookup ports.PrincipalLookup = principalRepo
	if cfg.Redis.PrincipalCacheTTL > 0 {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)

		lookup = redis.NewPrincipalCache(rdb, principalRepo, cfg.Redis.PrincipalCacheTTL, log)
		probes = append(probes, handlers.RedisCheck(rdb))
	} else {
		log.Info().Msg("principal cache disabled")
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)

	e := api.NewRouter(api.Services{
		Auth:       service.NewAuthService(principalRepo, hasher, tokens, log),
		Resolver:   service.NewPrincipalResolver(tokens, lookup),
		Categories: service.NewCategoryService(categoryRepo, expenseRepo, log),
		Expenses:   service.NewExpenseService(expenseRepo, categoryRepo, log),
		Probes:     probes,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis")
	}
}
