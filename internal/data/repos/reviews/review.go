package reviews

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

// ReviewerRating is one distinct (user, rating, date) triple for a product.
type ReviewerRating struct {
	UserID     int64      `json:"user_id"`
	Overall    float64    `json:"overall"`
	ReviewDate *time.Time `json:"review_date"`
}

type ReviewRepo interface {
	// Create inserts one review row and returns it with the generated
	// surrogate id. Failure to obtain the id is an error: the document write
	// that follows depends on it.
	Create(ctx context.Context, tx *gorm.DB, row *review.Review) (*review.Review, error)
	// RatingsByUser returns the user's sparse rating vector, asin -> rating.
	RatingsByUser(ctx context.Context, tx *gorm.DB, userID int64) (map[string]float64, error)
	// DistinctReviewersForProduct returns the distinct (user, rating, date)
	// triples for a product.
	DistinctReviewersForProduct(ctx context.Context, tx *gorm.DB, productID int64) ([]ReviewerRating, error)
	// DistinctReviewerIDsForProduct returns the distinct user ids that
	// reviewed a product, ordered for determinism.
	DistinctReviewerIDsForProduct(ctx context.Context, tx *gorm.DB, productID int64) ([]int64, error)
	// DistinctCategoriesForUser returns the distinct categories among the
	// products the user reviewed.
	DistinctCategoriesForUser(ctx context.Context, tx *gorm.DB, userID int64) ([]string, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, row *review.Review) (*review.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	if row.ReviewID == 0 {
		return nil, errors.New("review insert returned no generated id")
	}
	return row, nil
}

func (rr *reviewRepo) RatingsByUser(ctx context.Context, tx *gorm.DB, userID int64) (map[string]float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var rows []struct {
		ASIN    string  `json:"asin"`
		Overall float64 `json:"overall"`
	}
	err := transaction.WithContext(ctx).Raw(`
		SELECT p.asin, r.overall
		FROM reviews r
		JOIN products p ON p.product_id = r.product_id
		WHERE r.user_id = ?`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ratings := make(map[string]float64, len(rows))
	for _, row := range rows {
		ratings[row.ASIN] = row.Overall
	}
	return ratings, nil
}

func (rr *reviewRepo) DistinctReviewersForProduct(ctx context.Context, tx *gorm.DB, productID int64) ([]ReviewerRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []ReviewerRating
	err := transaction.WithContext(ctx).Raw(`
		SELECT DISTINCT r.user_id, r.overall, r.review_date
		FROM reviews r
		WHERE r.product_id = ?
		ORDER BY r.user_id ASC`, productID).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) DistinctReviewerIDsForProduct(ctx context.Context, tx *gorm.DB, productID int64) ([]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var ids []int64
	err := transaction.WithContext(ctx).Raw(`
		SELECT DISTINCT r.user_id
		FROM reviews r
		WHERE r.product_id = ?
		ORDER BY r.user_id ASC`, productID).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (rr *reviewRepo) DistinctCategoriesForUser(ctx context.Context, tx *gorm.DB, userID int64) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var categories []string
	err := transaction.WithContext(ctx).Raw(`
		SELECT DISTINCT p.category
		FROM reviews r
		JOIN products p ON p.product_id = r.product_id
		WHERE r.user_id = ?
		ORDER BY p.category ASC`, userID).Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
