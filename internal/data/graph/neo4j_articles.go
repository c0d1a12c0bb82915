package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
)

// ArticleReviewer is one distinct user's review of an article. ReviewDate is
// the "2006-01-02" rendering, empty when the relational date is null.
type ArticleReviewer struct {
	UserID     int64
	Overall    float64
	ReviewDate string
}

// MergeArticleReviews upserts an :Article node for the asin and a REVIEWED
// edge from every distinct reviewing user, carrying rating and date.
// Create-or-match semantics throughout: repeated runs do not duplicate.
func MergeArticleReviews(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, asin, category string, reviewers []ArticleReviewer) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(reviewers))
	for _, r := range reviewers {
		rows = append(rows, map[string]any{
			"user_id":     r.UserID,
			"overall":     r.Overall,
			"review_date": r.ReviewDate,
		})
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (a:Article {asin: $asin, category: $category})
`, map[string]any{"asin": asin, "category": category}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(rows) == 0 {
			return nil, nil
		}

		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MATCH (u:User {user_id: r.user_id}), (a:Article {asin: $asin})
MERGE (u)-[rel:REVIEWED]->(a)
SET rel.overall = r.overall, rel.review_date = r.review_date
`, map[string]any{"rows": rows, "asin": asin})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Debug("Article reviews merged", "asin", asin, "reviewers", len(reviewers))
	}
	return err
}
