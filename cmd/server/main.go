package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/config"
	"crown-platform/backend/internal/db"
	"crown-platform/backend/internal/logging"
	gormModels "crown-platform/backend/internal/models/gorm"
	"crown-platform/backend/internal/routes"
	"crown-platform/backend/internal/storage"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Crown backend starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDatabase)

	// Connect to DB with sqlx
	if err := db.InitPostgres(dsn); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	gormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	if err := gormDB.AutoMigrate(
		&gormModels.Contest{},
		&gormModels.ContestParticipant{},
		&gormModels.Submission{},
		&gormModels.MediaItem{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := common.NewRedisClient(cfg)

	store, err := storage.NewBucketStore(context.Background(), cfg)
	if err != nil {
		logging.Error("Failed to initialize media storage", "error", err.Error())
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	upSince := time.Now()

	router, err := routes.RegisterRoutes(cfg, db.DB, gormDB, rdb, store, upSince)
	if err != nil {
		log.Fatalf("Failed to initialize routes: %v", err)
	}

	logging.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
	)

	log.Printf("Starting server on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
