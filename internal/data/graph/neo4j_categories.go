package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
)

// MergeUserCategories upserts the user's :Category nodes and a
// REVIEWED_CATEGORY edge per category. The edge count is an accumulator:
// initialized at 1 on create, incremented on every later encounter. The user
// node gains each category into an accumulating list attribute.
func MergeUserCategories(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, userID int64, categories []string) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if len(categories) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (u:User {user_id: $user_id})
`, map[string]any{"user_id": userID}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err := tx.Run(ctx, `
UNWIND $categories AS cat
MERGE (c:Category {name: cat})
WITH c, cat
MATCH (u:User {user_id: $user_id})
MERGE (u)-[rc:REVIEWED_CATEGORY]->(c)
ON CREATE SET rc.count = 1
ON MATCH SET rc.count = rc.count + 1
SET u.categories = coalesce(u.categories, []) + cat
`, map[string]any{"categories": categories, "user_id": userID})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Debug("User categories merged", "user_id", userID, "categories", len(categories))
	}
	return err
}
