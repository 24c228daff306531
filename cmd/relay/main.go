package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sync_relay/internal/broadcast"
	"sync_relay/internal/config"
	"sync_relay/internal/publisher"
	"sync_relay/internal/scheduler"
	"sync_relay/internal/server"
	"sync_relay/internal/service"
	"sync_relay/internal/syncstate"
	"sync_relay/internal/upstream"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	// Optional RabbitMQ mirror for change events
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	// Process-scoped state: reset to empty on every restart
	store := syncstate.NewStore()
	registry := broadcast.NewRegistry()
	dispatcher := broadcast.NewDispatcher(registry, logger)

	// Upstream API client
	client := upstream.New(upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Version:        cfg.Upstream.Version,
		MaxPages:       cfg.Upstream.MaxPages,
		Timeout:        cfg.Upstream.Timeout,
		MaxAttempts:    cfg.Upstream.Retry.MaxAttempts,
		InitialBackoff: cfg.Upstream.Retry.InitialBackoff,
		MaxBackoff:     cfg.Upstream.Retry.MaxBackoff,
	}, logger)

	detector := service.NewDetector(store, logger)
	syncService := service.NewSyncService(
		client,
		store,
		detector,
		dispatcher,
		pub,
		logger,
		cfg.Sync.Token,
	)

	srv := server.New(syncService, registry, cfg.Server, cfg.Upstream.Token, logger)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.Sync.Enabled {
		sched := scheduler.NewScheduler(syncService, store, cfg.Sync.Interval, cfg.Sync.RunTimeout, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting sync relay",
		"addr", cfg.Server.Addr,
		"upstream", cfg.Upstream.BaseURL,
		"poll_enabled", cfg.Sync.Enabled,
		"poll_interval", cfg.Sync.Interval,
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
