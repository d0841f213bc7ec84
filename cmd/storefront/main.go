package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/catalog"
	"vitrine-storefront/internal/checkout"
	"vitrine-storefront/internal/config"
	"vitrine-storefront/internal/db"
	"vitrine-storefront/internal/httpserver"
	"vitrine-storefront/internal/orders"
	"vitrine-storefront/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.FromEnv()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	ctx := context.Background()

	slot, ready, cleanup, err := buildSlot(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("init cart storage")
	}
	defer cleanup()

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog: catalog.NewClient(cfg.CatalogAPIURL, logger),
		Orders:  orders.NewClient(cfg.OrdersAPIURL, logger),
		Handoff: checkout.LogHandoff{Logger: logger},
		Slot:    slot,
		Options: checkout.Options{
			CountryCode:     cfg.CountryCode,
			TrackingBaseURL: cfg.TrackingBaseURL,
		},
		Ready: ready,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}

// buildSlot selects the cart slot backend from config. The memory backend has
// no readiness check.
func buildSlot(ctx context.Context, cfg config.Config) (storage.Slot, func(context.Context) error, func(), error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemory(), nil, func() {}, nil
	case "redis":
		rdb, err := storage.NewRedis(ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CartTTL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return rdb, rdb.Ping, func() { rdb.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewPostgres(pool), pool.Ping, pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
