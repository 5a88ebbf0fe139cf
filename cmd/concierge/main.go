package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Concierge/internal/api"
	"github.com/MikeSquared-Agency/Concierge/internal/broker"
	"github.com/MikeSquared-Agency/Concierge/internal/config"
	"github.com/MikeSquared-Agency/Concierge/internal/constraint"
	"github.com/MikeSquared-Agency/Concierge/internal/hermes"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.Database.URL != "" {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database")
		return db, nil
	}

	inv := store.SampleInventory()
	if cfg.Database.InventoryPath != "" {
		loaded, err := store.LoadInventory(cfg.Database.InventoryPath)
		if err != nil {
			return nil, err
		}
		inv = loaded
	}
	logger.Info("using in-memory store",
		"rooms", len(inv.Rooms),
		"guests", len(inv.Guests),
		"bookings", len(inv.Bookings),
	)
	return store.NewMemoryStoreFrom(inv), nil
}

// seedConstraints loads tenant constraint bindings from path into s.
func seedConstraints(ctx context.Context, s store.Store, reg *constraint.Registry, path string) (int, error) {
	configs, err := constraint.LoadTenantConfigs(path)
	if err != nil {
		return 0, err
	}
	for _, c := range configs {
		if err := reg.Validate(c); err != nil {
			return 0, fmt.Errorf("tenant %s: %w", c.TenantID, err)
		}
		if err := s.UpsertTenantConstraint(ctx, c); err != nil {
			return 0, err
		}
	}
	return len(configs), nil
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Tenant constraints
	registry := constraint.DefaultRegistry()
	if cfg.Tenant.ConstraintsPath != "" {
		n, err := seedConstraints(ctx, db, registry, cfg.Tenant.ConstraintsPath)
		if err != nil {
			logger.Error("failed to load tenant constraints", "path", cfg.Tenant.ConstraintsPath, "error", err)
			os.Exit(1)
		}
		logger.Info("tenant constraints loaded", "count", n)
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, hermes.BreakerConfig{
			Failures: cfg.Hermes.BreakerFailures,
			Timeout:  cfg.Hermes.BreakerTimeout,
		}, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Broker
	b := broker.New(db, hermesClient, registry, cfg, logger)
	b.SetupSubscriptions()
	logger.Info("broker ready",
		"methods", b.Methods(),
		"default_method", cfg.Allocation.DefaultMethod,
		"batch_method", cfg.Allocation.BatchMethod,
	)

	// API server
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(db, b, cfg, logger),
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
