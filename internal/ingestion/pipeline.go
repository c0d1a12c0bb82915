package ingestion

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/reviewgraph-backend/internal/data/repos/reviews"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/runs"
	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

const maxLineBytes = 8 * 1024 * 1024

// DocumentStore is the document-side capability the pipeline consumes.
type DocumentStore interface {
	Upsert(ctx context.Context, reviewID int64, doc *review.ReviewDocument) error
}

// FileStats are the per-file counters recorded on the IngestRun row.
type FileStats struct {
	Records   int `json:"records"`
	Malformed int `json:"malformed_lines"`
	Documents int `json:"documents"`
}

// Pipeline streams line-delimited review files into the relational and
// document stores. Relational writes for a file share one transaction
// committed at end-of-file; document writes happen immediately per record and
// are not rolled back on a relational abort. A mid-file failure can therefore
// leave documents without a committed review row; DropCollection before a
// fresh load is the operational remedy.
type Pipeline struct {
	db       *gorm.DB
	log      *logger.Logger
	users    reviews.UserRepo
	products reviews.ProductRepo
	revs     reviews.ReviewRepo
	runs     runs.IngestRunRepo
	docs     DocumentStore
}

func NewPipeline(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo reviews.UserRepo,
	productRepo reviews.ProductRepo,
	reviewRepo reviews.ReviewRepo,
	runRepo runs.IngestRunRepo,
	docs DocumentStore,
) *Pipeline {
	return &Pipeline{
		db:       db,
		log:      baseLog.With("service", "IngestPipeline"),
		users:    userRepo,
		products: productRepo,
		revs:     reviewRepo,
		runs:     runRepo,
		docs:     docs,
	}
}

// Run processes the manifest entries strictly in listed order. The first
// failing file aborts the whole run; there is no partial-success summary.
func (p *Pipeline) Run(ctx context.Context, m *Manifest) error {
	for _, entry := range m.Files {
		p.log.Info("Processing file", "path", entry.Path, "category", entry.Category)
		stats, err := p.ProcessFile(ctx, entry.Path, entry.Category)
		if err != nil {
			return fmt.Errorf("ingest %s (%s): %w", entry.Path, entry.Category, err)
		}
		p.log.Info("File completed",
			"path", entry.Path,
			"category", entry.Category,
			"records", stats.Records,
			"malformed_lines", stats.Malformed,
		)
	}
	return nil
}

// ProcessFile ingests one file, in input order. Parse errors (undecodable
// line, bad date) are recovered locally; store errors abort the file.
func (p *Pipeline) ProcessFile(ctx context.Context, path, category string) (*FileStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	run, err := p.runs.Create(ctx, nil, &review.IngestRun{
		FilePath:  path,
		Category:  category,
		Status:    review.IngestRunStatusRunning,
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create ingest run: %w", err)
	}

	stats := &FileStats{}
	tx := p.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		p.markFailed(ctx, run, tx.Error)
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			stats.Malformed++
			p.log.Warn("Skipping undecodable line", "path", path, "error", err)
			continue
		}

		if err := p.ingestRecord(ctx, tx, &rec, category, stats); err != nil {
			tx.Rollback()
			p.markFailed(ctx, run, err)
			return nil, err
		}
		stats.Records++
	}
	if err := scanner.Err(); err != nil {
		tx.Rollback()
		p.markFailed(ctx, run, err)
		return nil, fmt.Errorf("read input: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		p.markFailed(ctx, run, err)
		return nil, fmt.Errorf("commit file: %w", err)
	}

	p.markSucceeded(ctx, run, stats)
	return stats, nil
}

func (p *Pipeline) ingestRecord(ctx context.Context, tx *gorm.DB, rec *Record, category string, stats *FileStats) error {
	user, err := p.users.GetOrCreateByReviewerID(ctx, tx, rec.ReviewerKey(), rec.ReviewerName)
	if err != nil {
		return fmt.Errorf("resolve user %q: %w", rec.ReviewerKey(), err)
	}

	product, err := p.products.GetOrCreateByASIN(ctx, tx, rec.ProductKey(), category)
	if err != nil {
		return fmt.Errorf("resolve product %q: %w", rec.ProductKey(), err)
	}

	created, err := p.revs.Create(ctx, tx, &review.Review{
		UserID:     user.UserID,
		ProductID:  product.ProductID,
		Overall:    rec.Rating(),
		ReviewDate: rec.Date(),
		UnixTime:   rec.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	up, total := rec.HelpfulVotes()
	if err := p.docs.Upsert(ctx, created.ReviewID, &review.ReviewDocument{
		ReviewID:     created.ReviewID,
		ReviewText:   rec.Text(),
		Summary:      rec.SummaryText(),
		HelpfulUp:    up,
		HelpfulTotal: total,
	}); err != nil {
		return fmt.Errorf("upsert review document %d: %w", created.ReviewID, err)
	}
	stats.Documents++
	return nil
}

func (p *Pipeline) markSucceeded(ctx context.Context, run *review.IngestRun, stats *FileStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		raw = []byte("{}")
	}
	now := time.Now().UTC()
	if err := p.runs.UpdateFields(ctx, nil, run.ID, map[string]any{
		"status":      review.IngestRunStatusSucceeded,
		"stats":       datatypes.JSON(raw),
		"finished_at": &now,
	}); err != nil {
		p.log.Warn("Failed to finalize ingest run", "run_id", run.ID, "error", err)
	}
}

func (p *Pipeline) markFailed(ctx context.Context, run *review.IngestRun, cause error) {
	now := time.Now().UTC()
	if err := p.runs.UpdateFields(ctx, nil, run.ID, map[string]any{
		"status":      review.IngestRunStatusFailed,
		"error":       cause.Error(),
		"finished_at": &now,
	}); err != nil {
		p.log.Warn("Failed to mark ingest run failed", "run_id", run.ID, "error", err)
	}
}
