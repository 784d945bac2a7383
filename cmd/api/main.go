package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastfood-platform/order-service/internal/config"
	"github.com/fastfood-platform/order-service/internal/database"
	idempostgres "github.com/fastfood-platform/order-service/internal/idempotency/postgres"
	"github.com/fastfood-platform/order-service/internal/kafka"
	"github.com/fastfood-platform/order-service/internal/orders/adapters"
	"github.com/fastfood-platform/order-service/internal/orders/adapters/catalog"
	httpadapter "github.com/fastfood-platform/order-service/internal/orders/adapters/http"
	"github.com/fastfood-platform/order-service/internal/orders/adapters/payment"
	orderspostgres "github.com/fastfood-platform/order-service/internal/orders/adapters/postgres"
	ordersapp "github.com/fastfood-platform/order-service/internal/orders/app"
	ordersmetrics "github.com/fastfood-platform/order-service/internal/orders/metrics"
	"github.com/fastfood-platform/order-service/internal/telemetry"
	"go.opentelemetry.io/otel"
)

func main() {
	if err := run(); err != nil {
		slog.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations completed successfully")
	}

	meter := otel.Meter(cfg.Service.Name)

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create database metrics: %w", err)
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create http metrics: %w", err)
	}
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create order metrics: %w", err)
	}
	kafkaMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create kafka metrics: %w", err)
	}

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.Timeout})
	paymentClient := payment.NewClient(cfg.Payment.BaseURL, &http.Client{Timeout: cfg.Payment.Timeout})

	repo := adapters.NewObservableRepository(
		orderspostgres.NewRepository(pool, catalogClient, catalogClient, logger),
		dbMetrics,
	)
	idemStore := idempostgres.NewStore(pool)
	eventBus := kafka.NewNoopEventBus(kafkaMetrics)

	service := ordersapp.NewService(
		repo,
		catalogClient,
		catalogClient,
		catalogClient,
		paymentClient,
		eventBus,
		idemStore,
		logger,
		orderMetrics,
		cfg.HTTP.PublicBaseURL,
	)

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		Handler:  httpadapter.NewHandler(service),
		Metrics:  httpMetrics,
		AuthUser: cfg.Auth.User,
		AuthPass: cfg.Auth.Password,
		ReadyFunc: func(r *http.Request) error {
			return database.CheckHealth(r.Context(), pool)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
