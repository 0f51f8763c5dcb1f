package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/priyansupat/farmdirect-backend/api/routes"
	internalauth "github.com/priyansupat/farmdirect-backend/internal/auth"
	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/internal/catalog"
	"github.com/priyansupat/farmdirect-backend/internal/checkout"
	"github.com/priyansupat/farmdirect-backend/internal/orders"
	"github.com/priyansupat/farmdirect-backend/internal/recommend"
	"github.com/priyansupat/farmdirect-backend/internal/reviews"
	"github.com/priyansupat/farmdirect-backend/internal/users"
	"github.com/priyansupat/farmdirect-backend/pkg/auth/session"
	"github.com/priyansupat/farmdirect-backend/pkg/config"
	"github.com/priyansupat/farmdirect-backend/pkg/db"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
	"github.com/priyansupat/farmdirect-backend/pkg/migrate"
	redisclient "github.com/priyansupat/farmdirect-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet, fall back to stderr.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "farmdirect-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api terminated", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	redisClient, err := redisclient.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	reviewRepo := reviews.NewRepository(dbClient.DB())

	authSvc, err := internalauth.NewService(userRepo, sessions, cfg.JWT, cfg.Password)
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cartRepo, catalogSvc)
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(dbClient, orderRepo, catalogRepo)
	if err != nil {
		return err
	}
	orderSvc, err := orders.NewService(orderRepo, dbClient)
	if err != nil {
		return err
	}
	reviewSvc, err := reviews.NewService(reviewRepo, catalogSvc)
	if err != nil {
		return err
	}

	// The marketplace stays up without the model; the recommender endpoint
	// reports unavailable until the artifacts load on a later restart.
	artifacts, err := recommend.LoadArtifacts(cfg.Recommender.ScalerPath, cfg.Recommender.ModelPath)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "recommender artifacts unavailable")
		artifacts = nil
	}
	recommendSvc := recommend.NewService(artifacts, logg)

	handler := routes.New(routes.Dependencies{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Sessions:  sessions,
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
		Orders:    orderSvc,
		Reviews:   reviewSvc,
		Recommend: recommendSvc,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
