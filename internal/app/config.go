package app

import (
	"github.com/yungbote/reviewgraph-backend/internal/data/db"
	"github.com/yungbote/reviewgraph-backend/internal/platform/docstore"
	"github.com/yungbote/reviewgraph-backend/internal/platform/envutil"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
)

// Config carries every connection parameter as an explicit value handed to
// component constructors. Nothing reads the environment past this point.
type Config struct {
	Postgres db.Config
	DocStore docstore.Config
	Neo4j    neo4jdb.Config

	// ManifestPath locates the YAML file listing input files for a load run.
	ManifestPath string

	// Graph-build parameters.
	TopUsers        int
	ArticleCategory string
	ArticleSample   int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Postgres: db.Config{
			Host:     envutil.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:     envutil.GetEnv("POSTGRES_PORT", "5432", log),
			User:     envutil.GetEnv("POSTGRES_USER", "postgres", log),
			Password: envutil.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:     envutil.GetEnv("POSTGRES_NAME", "reviewgraph", log),
		},
		DocStore: docstore.Config{
			Addr:      envutil.GetEnv("REDIS_ADDR", "localhost:6379", log),
			Password:  envutil.GetEnv("REDIS_PASSWORD", "", log),
			DB:        envutil.GetEnvAsInt("REDIS_DB", 0, log),
			KeyPrefix: envutil.GetEnv("REVIEW_DOC_PREFIX", "reviewdoc:", log),
		},
		Neo4j: neo4jdb.Config{
			URI:            envutil.GetEnv("NEO4J_URI", "bolt://localhost:7687", log),
			User:           envutil.GetEnv("NEO4J_USER", "neo4j", log),
			Password:       envutil.GetEnv("NEO4J_PASSWORD", "", log),
			Database:       envutil.GetEnv("NEO4J_DATABASE", "", log),
			TimeoutSeconds: envutil.GetEnvAsInt("NEO4J_TIMEOUT_SECONDS", 10, log),
		},
		ManifestPath:    envutil.GetEnv("INGEST_MANIFEST", "manifest.yaml", log),
		TopUsers:        envutil.GetEnvAsInt("GRAPH_TOP_USERS", 30, log),
		ArticleCategory: envutil.GetEnv("GRAPH_ARTICLE_CATEGORY", "", log),
		ArticleSample:   envutil.GetEnvAsInt("GRAPH_ARTICLE_SAMPLE", 10, log),
	}
}
