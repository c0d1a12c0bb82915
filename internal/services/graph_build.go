package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/reviewgraph-backend/internal/analytics/similarity"
	"github.com/yungbote/reviewgraph-backend/internal/data/graph"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/reviews"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
	"github.com/yungbote/reviewgraph-backend/internal/platform/neo4jdb"
)

const (
	// First N users by natural-key order considered for category membership.
	maxCategoryUsers = 400
	// Niche selection: the top nicheLimit products having strictly fewer
	// than nicheMaxReviews reviews.
	nicheLimit      = 5
	nicheMaxReviews = 40
)

// GraphBuildService turns relational data into the Neo4j property graph. The
// graph is a materialized view: Clear then rebuild, no incremental diffing.
// All four build procedures are independent and order-insensitive.
type GraphBuildService struct {
	db       *gorm.DB
	log      *logger.Logger
	client   *neo4jdb.Client
	users    reviews.UserRepo
	products reviews.ProductRepo
	revs     reviews.ReviewRepo
}

func NewGraphBuildService(
	db *gorm.DB,
	baseLog *logger.Logger,
	client *neo4jdb.Client,
	userRepo reviews.UserRepo,
	productRepo reviews.ProductRepo,
	reviewRepo reviews.ReviewRepo,
) *GraphBuildService {
	return &GraphBuildService{
		db:       db,
		log:      baseLog.With("service", "GraphBuildService"),
		client:   client,
		users:    userRepo,
		products: productRepo,
		revs:     reviewRepo,
	}
}

func (s *GraphBuildService) Clear(ctx context.Context) error {
	return graph.ClearGraph(ctx, s.client, s.log)
}

// BuildSimilarityGraph selects the topN users by review count, computes
// pairwise Pearson similarity over their sparse rating vectors, and writes
// User nodes plus two directed SIMILAR edges per retained positive pair.
func (s *GraphBuildService) BuildSimilarityGraph(ctx context.Context, topN int) error {
	ranked, err := s.users.TopByReviewCount(ctx, nil, topN)
	if err != nil {
		return fmt.Errorf("rank users: %w", err)
	}

	userIDs := make([]int64, 0, len(ranked))
	nodes := make([]graph.UserNode, 0, len(ranked))
	ratings := make(map[int64]map[string]float64, len(ranked))
	for _, u := range ranked {
		vector, err := s.revs.RatingsByUser(ctx, nil, u.UserID)
		if err != nil {
			return fmt.Errorf("load ratings for user %d: %w", u.UserID, err)
		}
		userIDs = append(userIDs, u.UserID)
		ratings[u.UserID] = vector
		nodes = append(nodes, graph.UserNode{UserID: u.UserID, ReviewerID: u.ReviewerID})
	}

	pairs := similarity.Matrix(userIDs, ratings)
	edges := make([]graph.SimilarityEdge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, graph.SimilarityEdge{U1: p.U1, U2: p.U2, Score: p.Score})
	}

	if err := graph.CreateUserNodes(ctx, s.client, s.log, nodes); err != nil {
		return fmt.Errorf("create user nodes: %w", err)
	}
	if err := graph.CreateSimilarityRelationships(ctx, s.client, s.log, edges); err != nil {
		return fmt.Errorf("create similarity relationships: %w", err)
	}
	s.log.Info("Similarity graph built", "users", len(nodes), "pairs", len(edges))
	return nil
}

// LinkCategoryArticles samples up to n random products of the category and
// merges an Article node plus REVIEWED edges from every distinct reviewer.
func (s *GraphBuildService) LinkCategoryArticles(ctx context.Context, category string, n int) error {
	sampled, err := s.products.RandomByCategory(ctx, nil, category, n)
	if err != nil {
		return fmt.Errorf("sample products for %q: %w", category, err)
	}

	for _, product := range sampled {
		rows, err := s.revs.DistinctReviewersForProduct(ctx, nil, product.ProductID)
		if err != nil {
			return fmt.Errorf("load reviewers for product %d: %w", product.ProductID, err)
		}

		reviewers := make([]graph.ArticleReviewer, 0, len(rows))
		for _, row := range rows {
			date := ""
			if row.ReviewDate != nil {
				date = row.ReviewDate.Format("2006-01-02")
			}
			reviewers = append(reviewers, graph.ArticleReviewer{
				UserID:     row.UserID,
				Overall:    row.Overall,
				ReviewDate: date,
			})
		}
		if err := graph.MergeArticleReviews(ctx, s.client, s.log, product.ASIN, category, reviewers); err != nil {
			return fmt.Errorf("merge article %s: %w", product.ASIN, err)
		}
	}
	s.log.Info("Category articles linked", "category", category, "articles", len(sampled))
	return nil
}

// LinkMultiCategoryUsers walks the first 400 users by natural-key order and,
// for each one that reviewed more than one distinct category, merges Category
// nodes and accumulating REVIEWED_CATEGORY edges.
func (s *GraphBuildService) LinkMultiCategoryUsers(ctx context.Context) error {
	users, err := s.users.OrderedByReviewerID(ctx, nil, maxCategoryUsers)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	linked := 0
	for _, u := range users {
		categories, err := s.revs.DistinctCategoriesForUser(ctx, nil, u.UserID)
		if err != nil {
			return fmt.Errorf("load categories for user %d: %w", u.UserID, err)
		}
		if len(categories) <= 1 {
			continue
		}
		if err := graph.MergeUserCategories(ctx, s.client, s.log, u.UserID, categories); err != nil {
			return fmt.Errorf("merge categories for user %d: %w", u.UserID, err)
		}
		linked++
	}
	s.log.Info("Multi-category users linked", "users", linked)
	return nil
}

// LinkPopularNicheArticles selects the 5 products with fewer than 40 reviews
// ranked by review count descending, merges each with its reviewer links, and
// accumulates COMMON_REVIEWS weights between every pair of its reviewers.
func (s *GraphBuildService) LinkPopularNicheArticles(ctx context.Context) error {
	articles, err := s.products.PopularNiche(ctx, nil, nicheLimit, nicheMaxReviews)
	if err != nil {
		return fmt.Errorf("select niche products: %w", err)
	}

	for _, article := range articles {
		userIDs, err := s.revs.DistinctReviewerIDsForProduct(ctx, nil, article.ProductID)
		if err != nil {
			return fmt.Errorf("load reviewers for product %d: %w", article.ProductID, err)
		}
		if err := graph.MergePopularArticle(ctx, s.client, s.log, article.ASIN, article.ReviewCount, userIDs); err != nil {
			return fmt.Errorf("merge popular article %s: %w", article.ASIN, err)
		}
	}
	s.log.Info("Popular niche articles linked", "articles", len(articles))
	return nil
}
