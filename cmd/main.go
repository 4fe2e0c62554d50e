/**
 * @description
 * This is the main entry point for the Pledg lending service. It wires the
 * session store, price feed, risk scanner, staged verification flows and the
 * HTTP API, then runs until interrupted.
 *
 * Key dependencies:
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - github.com/redis/go-redis/v9: Optional session persistence.
 * - github.com/rabbitmq/amqp091-go: Optional risk event publishing.
 */
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Vijayesvar/pledgdemo/internal/api"
	"github.com/Vijayesvar/pledgdemo/internal/app"
	"github.com/Vijayesvar/pledgdemo/internal/config"
	"github.com/Vijayesvar/pledgdemo/internal/store"
	"github.com/Vijayesvar/pledgdemo/pkg/pricefeed"
	"github.com/Vijayesvar/pledgdemo/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Session persistence is optional: without Redis the session lives in
	// memory for the lifetime of the process.
	var repo store.SessionRepository
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, session will not persist", "error", err)
		} else {
			repo = store.NewRedisSessionRepository(client, cfg.SessionKey)
			logger.Info("session persistence enabled", "key", cfg.SessionKey)
		}
		defer client.Close()
	}

	st := store.NewStore(repo, pricefeed.FallbackPrice, logger)
	st.Hydrate(ctx)

	// Risk event publishing is optional as well.
	var publisher rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, risk events will not be published", "error", err)
		} else {
			publisher = producer
			defer producer.Close()
			logger.Info("risk event publishing enabled", "exchange", cfg.RiskEventExchange)
		}
	}

	// Initialize services
	loans := app.NewLoanService(st, logger)
	auth := app.NewAuthService(st, cfg.JWTSecret, cfg.DemoEmail, cfg.DemoPassword, logger)
	verification := app.NewVerificationService(st, loans, logger)
	defer verification.Close()

	feed := pricefeed.NewClient(cfg.PriceFeedURL)
	prices := app.NewPriceUpdater(st, feed, logger)
	scanner := app.NewRiskScanner(st, loans, publisher, cfg.RiskEventExchange, logger)

	// Seed the price once before the schedules take over.
	prices.Refresh(ctx)

	scheduler := app.NewScheduler(scanner, prices, logger, cfg)
	scheduler.Start()

	// HTTP server
	handler := api.NewHandler(auth, loans, verification, st)
	router := api.NewRouter(handler, cfg.JWTSecret)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal to gracefully shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped gracefully")
}
