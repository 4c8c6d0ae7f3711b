package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mdc-notebook-be/internal/bootstrap"
	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/model"
	"mdc-notebook-be/internal/pkg/logger"
	"mdc-notebook-be/internal/server"
	"mdc-notebook-be/internal/tracer"
	"mdc-notebook-be/pkg/database"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Logger & Tracer
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	shutdownTracer := tracer.InitTracer(cfg.Telemetry, sysLogger)

	// 3. Initialize Database
	gormDB, err := database.NewGormDB(database.GormConfig{
		DSN:          cfg.Database.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Production:   cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB, model.All()...); err != nil {
			log.Fatalf("Auto migration failed: %v", err)
		}
		sysLogger.Info("MAIN", "Database schema migrated", nil)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg, sysLogger)

	// 5. Initialize & Run Server
	srv := server.New(cfg, container)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runErr := waitForStop(serveErr, quit)
	if runErr != nil {
		sysLogger.Error("MAIN", "Server stopped", map[string]interface{}{"error": runErr})
	}

	sysLogger.Info("MAIN", "Shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sysLogger.Error("MAIN", "Server shutdown failed", map[string]interface{}{"error": err})
	}
	if err := shutdownTracer(ctx); err != nil {
		sysLogger.Error("MAIN", "Tracer shutdown failed", map[string]interface{}{"error": err})
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = sysLogger.Sync()

	if runErr != nil {
		os.Exit(1)
	}
}

// waitForStop blocks until a shutdown signal arrives or the server stops on
// its own. It returns the server's error in the latter case.
func waitForStop(serveErr <-chan error, quit <-chan os.Signal) error {
	select {
	case err := <-serveErr:
		if err == nil {
			return errors.New("server stopped unexpectedly")
		}
		return err
	case <-quit:
		return nil
	}
}
