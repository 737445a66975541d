// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/ventilation-store/internal/config"
	"github.com/your-org/ventilation-store/internal/infrastructure/database/postgres"
	"github.com/your-org/ventilation-store/internal/infrastructure/database/redis"
	"github.com/your-org/ventilation-store/internal/interfaces/http"
	"github.com/your-org/ventilation-store/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(cfg)
	logr.WithField("environment", cfg.App.Environment).Infof("starting %s v%s", cfg.App.Name, cfg.App.Version)

	db, err := postgres.NewConnection(cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("failed to connect to database")
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			logr.WithError(err).Warn("failed to close database")
		}
	}()

	redisClient, err := redis.NewConnection(cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("failed to connect to Redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db, logr)

	if err := migration.RunAutoMigrations(); err != nil {
		logr.WithError(err).Fatal("database migration failed")
	}

	if err := migration.CreateIndexes(); err != nil {
		logr.WithError(err).Warn("index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logr.WithError(err).Warn("data seeding failed")
		}
	}

	server := http.NewServer(cfg, db, redisClient.GetClient(), logr)

	go func() {
		if err := server.Start(); err != nil {
			logr.WithError(err).Fatal("failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logr.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	logr.Info("server shutdown completed")
}
