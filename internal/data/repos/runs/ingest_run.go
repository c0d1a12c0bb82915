package runs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

type IngestRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *review.IngestRun) (*review.IngestRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*review.IngestRun, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
}

type ingestRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestRunRepo(db *gorm.DB, baseLog *logger.Logger) IngestRunRepo {
	return &ingestRunRepo{db: db, log: baseLog.With("repo", "IngestRunRepo")}
}

func (r *ingestRunRepo) Create(ctx context.Context, tx *gorm.DB, run *review.IngestRun) (*review.IngestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *ingestRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*review.IngestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run review.IngestRun
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ingestRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&review.IngestRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}
