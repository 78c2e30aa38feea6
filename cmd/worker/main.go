package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"filevault/internal/config"
	"filevault/internal/database"
	"filevault/internal/database/migration"
	"filevault/internal/queue"
	"filevault/internal/repository/postgres"
	"filevault/internal/storage"
	"filevault/internal/worker"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(context.Background(), db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	userRepo := postgres.NewUserPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)

	srv := asynq.NewServer(queue.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	mux := asynq.NewServeMux()
	mux.Handle(queue.TaskThumbnail, worker.NewThumbnailProcessor(fileRepo, objStore))
	mux.Handle(queue.TaskWelcome, worker.NewWelcomeProcessor(userRepo))

	if err := srv.Run(mux); err != nil {
		log.Fatalf("failed to start worker: %v", err)
	}
}
