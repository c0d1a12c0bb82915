package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/reviewgraph-backend/internal/app"
	"github.com/yungbote/reviewgraph-backend/internal/data/db"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/reviews"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/runs"
	"github.com/yungbote/reviewgraph-backend/internal/ingestion"
	"github.com/yungbote/reviewgraph-backend/internal/platform/docstore"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	ctx := context.Background()

	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	docs, err := docstore.New(cfg.DocStore, log)
	if err != nil {
		log.Fatal("Document store init failed", "error", err)
	}
	defer docs.Close()

	// Fresh load: the document collection is dropped so the relational and
	// document sides rebuild together.
	if err := docs.DropCollection(ctx); err != nil {
		log.Fatal("Could not drop document collection", "error", err)
	}

	userRepo := reviews.NewUserRepo(thePG, log)
	productRepo := reviews.NewProductRepo(thePG, log)
	reviewRepo := reviews.NewReviewRepo(thePG, log)
	runRepo := runs.NewIngestRunRepo(thePG, log)

	manifest, err := ingestion.LoadManifest(cfg.ManifestPath)
	if err != nil {
		log.Fatal("Could not load manifest", "error", err)
	}

	pipeline := ingestion.NewPipeline(thePG, log, userRepo, productRepo, reviewRepo, runRepo, docs)
	if err := pipeline.Run(ctx, manifest); err != nil {
		log.Fatal("Ingestion aborted", "error", err)
	}
	log.Info("Load completed", "files", len(manifest.Files))
}
