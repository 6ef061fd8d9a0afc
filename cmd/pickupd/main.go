package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/pickupgames/internal/api"
	"github.com/mcoot/pickupgames/internal/factory"
	redisstorage "github.com/mcoot/pickupgames/internal/kv/redis"
)

func main() {
	// Missing .env files are fine; the environment may already be set
	_ = godotenv.Load(".env", ".env.local")

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("PICKUP_LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: getEnvOrDefault("PICKUP_STORE", factory.StorageTypeSQLite),
		SQLitePath:  getEnvOrDefault("PICKUP_DB_PATH", factory.DefaultSQLitePath),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when PICKUP_STORE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	sweepInterval, err := time.ParseDuration(getEnvOrDefault("PICKUP_SWEEP_INTERVAL", "1m"))
	if err != nil {
		logger.Error("invalid PICKUP_SWEEP_INTERVAL", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open storage and hydrate the entity store
	app, err := factory.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go app.Sweeper.Run(ctx, sweepInterval)

	// Create server
	serverConfig := api.DefaultServerConfig()
	if addr := os.Getenv("PICKUP_ADDR"); addr != "" {
		serverConfig.Addr = addr
	}
	server := api.NewServer(app.Router(), serverConfig, logger)
	// End change streams so Shutdown does not wait on them
	server.OnShutdown(app.Hub.Close)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", serverConfig.Addr),
		slog.String("store", cfg.ResolvedStorageType()),
		slog.Duration("sweep_interval", sweepInterval),
	)

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	// Flush the store before exit
	if err := app.Close(context.Background()); err != nil {
		logger.Error("close error", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
