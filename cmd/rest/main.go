package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"raw-ai-be/internal/bootstrap"
	"raw-ai-be/internal/config"
	"raw-ai-be/internal/model"
	"raw-ai-be/internal/server"
	"raw-ai-be/internal/tracer"
	"raw-ai-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// A local SQLite file has no separate migration step.
	if database.IsSQLite(cfg.Database.Connection) {
		if err := database.Migrate(gormDB, model.All()...); err != nil {
			log.Panicf("Unable to migrate SQLite DB: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	go container.ConsumerService.RunSweeper(ctx, cfg.Payment.SweepInterval)
	if container.CacheSyncService != nil {
		if err := container.CacheSyncService.Start(ctx); err != nil {
			log.Printf("Background Cache Sync Error: %v", err)
		}
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
