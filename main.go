package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"orion/adapters/postgres"
	"orion/adapters/storage"
	"orion/api"
	"orion/app"
	internal "orion/internal"
	"orion/internal/config"
	"orion/internal/errors"
	"orion/internal/frame"
	"orion/internal/migration"
)

// frameCacheSize keeps the hottest frames resident; loading from disk
// dominates request latency otherwise.
const frameCacheSize = 5

func main() {
	// .env is optional, real deployments set the environment directly.
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrations: %v", err)
	}
	cancel()

	frameStore, err := storage.NewFrameStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("frame store: %v", err)
	}
	modelStore, err := storage.NewModelStore(cfg.Storage.ModelsDir)
	if err != nil {
		log.Fatalf("model store: %v", err)
	}

	loader := app.NewFrameLoader(frame.NewCache(frameCacheSize), frameStore)

	activitySvc := app.NewActivityService(postgres.NewActivityRepository(db))
	datasetRepo := postgres.NewDatasetRepository(db)
	datasetSvc := app.NewDatasetService(datasetRepo, frameStore, loader, activitySvc, cfg.Data, logger)
	statsSvc := app.NewStatsService(datasetSvc, loader, cfg.Data, logger)
	mlSvc := app.NewMLService(datasetSvc, loader, modelStore, logger)
	scenarioSvc := app.NewScenarioService(postgres.NewScenarioRepository(db), datasetRepo)
	projectSvc := app.NewProjectService(postgres.NewProjectRepository(db), datasetSvc, loader, mlSvc, activitySvc, logger)
	exportSvc := app.NewExportService(statsSvc)

	server := api.NewServer(api.Services{
		Datasets:  datasetSvc,
		Stats:     statsSvc,
		ML:        mlSvc,
		Scenarios: scenarioSvc,
		Projects:  projectSvc,
		Activity:  activitySvc,
		Export:    exportSvc,
	}, cfg, logger)

	ops := api.NewOpsServer(db, cfg, logger)
	go func() {
		if err := ops.Run(); err != nil {
			logger.Error("[ops] server stopped: %v", err)
		}
	}()

	if err := server.Run(); err != nil {
		log.Fatalf("api server: %v", err)
	}
}

func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}
