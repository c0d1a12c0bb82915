package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
)

// UserNode is the projection written as a :User node.
type UserNode struct {
	UserID     int64
	ReviewerID string
}

// SimilarityEdge is one retained positive-similarity pair.
type SimilarityEdge struct {
	U1    int64
	U2    int64
	Score float64
}

// ClearGraph deletes every node and relationship. Every analytic run starts
// from a cleared graph: the graph store is a materialized view of the
// relational data, never a source of truth.
func ClearGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) error {
	if client == nil || client.Driver == nil {
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
		res, err := tx.Run(ctx, `MATCH (n) DETACH DELETE n`, nil)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Info("Graph cleared")
	}
	return err
}

// CreateUserNodes creates one :User node per selected user. Plain CREATE, no
// merge: rerunning without a prior ClearGraph duplicates nodes, which is why
// a clear precedes every build.
func CreateUserNodes(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, users []UserNode) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if len(users) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, map[string]any{
			"user_id":     u.UserID,
			"reviewer_id": u.ReviewerID,
		})
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
CREATE (u:User {user_id: r.user_id, reviewer_id: r.reviewer_id})
`, map[string]any{"rows": rows})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Info("User nodes created", "count", len(users))
	}
	return err
}

// CreateSimilarityRelationships creates two directed SIMILAR edges (one per
// direction) for every retained pair, carrying the similarity score.
func CreateSimilarityRelationships(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, pairs []SimilarityEdge) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if len(pairs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, map[string]any{
			"u1":         p.U1,
			"u2":         p.U2,
			"similarity": p.Score,
		})
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MATCH (a:User {user_id: r.u1}), (b:User {user_id: r.u2})
CREATE (a)-[:SIMILAR {similarity: r.similarity}]->(b)
CREATE (b)-[:SIMILAR {similarity: r.similarity}]->(a)
`, map[string]any{"rows": rows})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Info("Similarity relationships created", "pairs", len(pairs))
	}
	return err
}
