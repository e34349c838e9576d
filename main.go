package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"discord-modbot/bot"
	"discord-modbot/config"
	"discord-modbot/handlers"
	"discord-modbot/health"
	"discord-modbot/metrics"
	"discord-modbot/utils"
	"discord-modbot/utils/cache"
	"discord-modbot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := metrics.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Error initializing metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			slog.Warn("metrics shutdown failed", "error", err)
		}
	}()

	c := cache.Disabled(cfg.CacheKeyPrefix)
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		defer store.Close()
		c = cache.New(store, cfg.CacheKeyPrefix, slog.Default())
	}

	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, c)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer db.Close()

	b, err := bot.New(cfg, db, c)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}
	handlers.Register(b)

	if cfg.HealthAddr != "" {
		router := health.NewRouter(map[string]health.Check{
			"database": db.PingContext,
			"cache":    c.Ping,
		})
		go func() {
			if err := health.Serve(ctx, cfg.HealthAddr, router); err != nil {
				slog.Error("health server stopped", "error", err)
			}
		}()
	}

	if err := b.Run(ctx); err != nil {
		slog.Error("bot stopped with error", "error", err)
	}
}
