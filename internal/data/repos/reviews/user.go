package reviews

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

// RankedUser is the projection used by the graph subsystem: surrogate id plus
// natural key, without the full row.
type RankedUser struct {
	UserID     int64  `json:"user_id"`
	ReviewerID string `json:"reviewer_id"`
}

type UserRepo interface {
	// GetOrCreateByReviewerID returns the user for the natural key, inserting
	// it if absent. The read-then-write sequence assumes a single sequential
	// writer; it is not guarded against concurrent ingestion.
	GetOrCreateByReviewerID(ctx context.Context, tx *gorm.DB, reviewerID string, reviewerName *string) (*review.User, error)
	// TopByReviewCount ranks users by total review count descending, ties
	// broken by reviewer_id ascending for determinism.
	TopByReviewCount(ctx context.Context, tx *gorm.DB, limit int) ([]RankedUser, error)
	// OrderedByReviewerID returns the first limit users by natural key order.
	OrderedByReviewerID(ctx context.Context, tx *gorm.DB, limit int) ([]RankedUser, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) GetOrCreateByReviewerID(ctx context.Context, tx *gorm.DB, reviewerID string, reviewerName *string) (*review.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var existing review.User
	err := transaction.WithContext(ctx).
		Where("reviewer_id = ?", reviewerID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &review.User{
		ReviewerID:   reviewerID,
		ReviewerName: reviewerName,
	}
	if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	if created.UserID == 0 {
		return nil, errors.New("user insert returned no generated id")
	}
	return created, nil
}

func (ur *userRepo) TopByReviewCount(ctx context.Context, tx *gorm.DB, limit int) ([]RankedUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []RankedUser
	err := transaction.WithContext(ctx).Raw(`
		SELECT u.user_id, u.reviewer_id
		FROM users u
		JOIN reviews r ON r.user_id = u.user_id
		GROUP BY u.user_id, u.reviewer_id
		ORDER BY COUNT(r.review_id) DESC, u.reviewer_id ASC
		LIMIT ?`, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) OrderedByReviewerID(ctx context.Context, tx *gorm.DB, limit int) ([]RankedUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []RankedUser
	err := transaction.WithContext(ctx).
		Model(&review.User{}).
		Select("user_id", "reviewer_id").
		Order("reviewer_id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
