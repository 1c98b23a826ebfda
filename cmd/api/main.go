package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/database"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/logging"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/server"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
)

func main() {
	logger := logging.Must(config.GetEnvironment())
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	logger = logging.Must(cfg.Env)

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg, logger)
		if err != nil {
			logger.Warn("redis unavailable, recipe queries will not be rate limited", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	var images service.ImageSigner
	if cfg.S3Enabled() {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logger.Warn("S3 unavailable, recipe images will not be signed", zap.Error(err))
		} else {
			images = s3cfg
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(cfg, server.Deps{
		DB:       db,
		Redis:    redisClient,
		Images:   images,
		Logger:   logger,
		Registry: reg,
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
