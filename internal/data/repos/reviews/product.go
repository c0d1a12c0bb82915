package reviews

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

// ProductReviewCount is the projection for review-count rankings.
type ProductReviewCount struct {
	ProductID   int64  `json:"product_id"`
	ASIN        string `json:"asin"`
	ReviewCount int64  `json:"review_count"`
}

type ProductRepo interface {
	// GetOrCreateByASIN returns the product for the natural key, inserting it
	// with the given category if absent. The category is first-write-wins:
	// an existing row is returned untouched even when the category differs.
	GetOrCreateByASIN(ctx context.Context, tx *gorm.DB, asin, category string) (*review.Product, error)
	// RandomByCategory samples up to limit products of the category uniformly
	// at random.
	RandomByCategory(ctx context.Context, tx *gorm.DB, category string, limit int) ([]*review.Product, error)
	// PopularNiche returns the limit products having strictly fewer than
	// maxReviews reviews, ranked by review count descending (asin ascending
	// on ties).
	PopularNiche(ctx context.Context, tx *gorm.DB, limit, maxReviews int) ([]ProductReviewCount, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (pr *productRepo) GetOrCreateByASIN(ctx context.Context, tx *gorm.DB, asin, category string) (*review.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var existing review.Product
	err := transaction.WithContext(ctx).
		Where("asin = ?", asin).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &review.Product{
		ASIN:     asin,
		Category: category,
	}
	if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	if created.ProductID == 0 {
		return nil, errors.New("product insert returned no generated id")
	}
	return created, nil
}

func (pr *productRepo) RandomByCategory(ctx context.Context, tx *gorm.DB, category string, limit int) ([]*review.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*review.Product
	err := transaction.WithContext(ctx).
		Where("category = ?", category).
		Order("RANDOM()").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) PopularNiche(ctx context.Context, tx *gorm.DB, limit, maxReviews int) ([]ProductReviewCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []ProductReviewCount
	err := transaction.WithContext(ctx).Raw(`
		SELECT p.product_id, p.asin, COUNT(r.review_id) AS review_count
		FROM products p
		JOIN reviews r ON r.product_id = p.product_id
		GROUP BY p.product_id, p.asin
		HAVING COUNT(r.review_id) < ?
		ORDER BY review_count DESC, p.asin ASC
		LIMIT ?`, maxReviews, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
