package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/reviewgraph-backend/internal/app"
	"github.com/yungbote/reviewgraph-backend/internal/data/db"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/reviews"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
	"github.com/yungbote/reviewgraph-backend/internal/services"
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
	thePG := postgresService.DB()

	client, err := neo4jdb.New(cfg.Neo4j, log)
	if err != nil {
		log.Fatal("Neo4j init failed", "error", err)
	}
	defer client.Close(ctx)

	userRepo := reviews.NewUserRepo(thePG, log)
	productRepo := reviews.NewProductRepo(thePG, log)
	reviewRepo := reviews.NewReviewRepo(thePG, log)

	builder := services.NewGraphBuildService(thePG, log, client, userRepo, productRepo, reviewRepo)

	// Full rebuild: the graph is a materialized view of the relational data.
	if err := builder.Clear(ctx); err != nil {
		log.Fatal("Graph clear failed", "error", err)
	}
	if err := builder.BuildSimilarityGraph(ctx, cfg.TopUsers); err != nil {
		log.Fatal("Similarity graph build failed", "error", err)
	}
	if cfg.ArticleCategory != "" {
		if err := builder.LinkCategoryArticles(ctx, cfg.ArticleCategory, cfg.ArticleSample); err != nil {
			log.Fatal("Category article linking failed", "error", err)
		}
	}
	if err := builder.LinkMultiCategoryUsers(ctx); err != nil {
		log.Fatal("Multi-category user linking failed", "error", err)
	}
	if err := builder.LinkPopularNicheArticles(ctx); err != nil {
		log.Fatal("Popular niche article linking failed", "error", err)
	}
	log.Info("Graph build completed")
}
