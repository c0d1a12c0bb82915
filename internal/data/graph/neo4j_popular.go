package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
)

// MergePopularArticle upserts an :Article node with its review count, links
// every distinct reviewing user via REVIEWED_ARTICLE, and increments an
// undirected COMMON_REVIEWS edge for every pair of those users (initialized
// at 1 on first encounter). The pair loop is O(u²) per article; u is bounded
// by the niche selection, so the cost stays small.
func MergePopularArticle(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, asin string, reviewCount int64, userIDs []int64) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var pairs []map[string]any
	for i := 0; i < len(userIDs); i++ {
		for j := i + 1; j < len(userIDs); j++ {
			pairs = append(pairs, map[string]any{
				"u1": userIDs[i],
				"u2": userIDs[j],
			})
		}
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (a:Article {asin: $asin})
SET a.review_count = $count
`, map[string]any{"asin": asin, "count": reviewCount}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(userIDs) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $user_ids AS uid
MATCH (u:User {user_id: uid}), (a:Article {asin: $asin})
MERGE (u)-[:REVIEWED_ARTICLE]->(a)
`, map[string]any{"user_ids": userIDs, "asin": asin})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(pairs) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $pairs AS p
MATCH (u1:User {user_id: p.u1}), (u2:User {user_id: p.u2})
MERGE (u1)-[r:COMMON_REVIEWS]-(u2)
ON CREATE SET r.count = 1
ON MATCH SET r.count = r.count + 1
`, map[string]any{"pairs": pairs})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Debug("Popular article merged", "asin", asin, "review_count", reviewCount, "reviewers", len(userIDs))
	}
	return err
}
