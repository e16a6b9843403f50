package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trainhub/cache"
	"trainhub/config"
	"trainhub/database"
	"trainhub/logger"
	"trainhub/scheduler"
	"trainhub/server"
	"trainhub/services/email"
)

func main() {
	cfg := config.LoadConfig()

	appLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db := database.ConnectDb(cfg)

	var reportCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			appLogger.Warn("redis unavailable, report cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			reportCache = redisCache
		}
	}

	mailer := email.NewService(cfg, appLogger)
	services := server.NewServices(db, cfg, appLogger, reportCache, mailer)

	jobs := scheduler.New(db, services.Users, services.Gamification, mailer, appLogger)
	if err := jobs.Start(); err != nil {
		appLogger.Fatal("failed to start scheduler", "error", err)
	}
	defer jobs.Stop()

	app := server.New(cfg, appLogger, db, services)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		appLogger.Info("shutting down")
		_ = app.Shutdown()
	}()

	appLogger.Info("server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Error("server stopped", "error", err)
	}
}
