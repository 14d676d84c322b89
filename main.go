package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"credit-simulator/config"
	httpLayer "credit-simulator/http"
	"credit-simulator/repository"
	"credit-simulator/service"
)

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	if strings.EqualFold(cfg.LogFormat, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger := newLogger(cfg)
	if !envLoaded {
		logger.Debug(".env file not found, using process environment")
	}

	var (
		cache  repository.CacheRepository
		health repository.Pinger
	)
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(repository.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.WithError(err).Warn("redis not reachable at startup")
		}
		cancel()

		cache, health = redisCache, redisCache
		logger.WithField("addr", cfg.RedisAddr).Info("using redis cache")
	} else {
		memoryCache := repository.NewMemoryCache()
		cache, health = memoryCache, memoryCache
		logger.Info("REDIS_ADDR not set, using in-memory cache")
	}

	simulationService := service.NewSimulationService(cache, service.NewStrategyResolver(), logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Simulator: simulationService,
		Health:    health,
		Limiter:   rateLimiter,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("credit simulator listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.WithError(err).Error("server failed")
		return
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}

	logger.Info("server exited")
}
