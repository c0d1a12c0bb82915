package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/reviewgraph-backend/internal/data/repos/reviews"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/runs"
	"github.com/yungbote/reviewgraph-backend/internal/data/repos/testutil"
	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
)

// fakeDocStore collects documents in memory; failAfter > 0 makes every
// upsert past that many stored documents fail, simulating a mid-file
// document-store outage.
type fakeDocStore struct {
	docs      map[int64]*review.ReviewDocument
	failAfter int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[int64]*review.ReviewDocument)}
}

func (f *fakeDocStore) Upsert(_ context.Context, reviewID int64, doc *review.ReviewDocument) error {
	if f.failAfter > 0 && len(f.docs) >= f.failAfter {
		return errors.New("document store unavailable")
	}
	f.docs[reviewID] = doc
	return nil
}

func newTestPipeline(t *testing.T, docs DocumentStore) *Pipeline {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewPipeline(
		db,
		log,
		reviews.NewUserRepo(db, log),
		reviews.NewProductRepo(db, log),
		reviews.NewReviewRepo(db, log),
		runs.NewIngestRunRepo(db, log),
		docs,
	)
}

func writeLines(t *testing.T, name string, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestPipelineProcessFile(t *testing.T) {
	docs := newFakeDocStore()
	p := newTestPipeline(t, docs)
	db := testutil.DB(t)
	ctx := context.Background()

	path := writeLines(t, "toys.json", `{"reviewerID":"PIPE-U1","reviewerName":"Alice","asin":"PIPE-A1","overall":5,"reviewTime":"03 15, 2014","unixReviewTime":1394841600,"reviewText":"great","summary":"ok","helpful":[1,2]}
{"reviewerID":"PIPE-U2","asin":"PIPE-A1","overall":3,"reviewTime":"not-a-date","reviewText":"meh"}
this line is not json at all
{"reviewerID":"PIPE-U1","asin":"PIPE-A2","overall":4}
`)

	stats, err := p.ProcessFile(ctx, path, "Toys_and_Games")
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if stats.Records != 3 {
		t.Fatalf("records: got %d, want 3", stats.Records)
	}
	// The undecodable line is skipped and counted; it never aborts the file
	// or the records after it.
	if stats.Malformed != 1 {
		t.Fatalf("malformed: got %d, want 1", stats.Malformed)
	}
	if stats.Documents != 3 {
		t.Fatalf("documents: got %d, want 3", stats.Documents)
	}

	var userCount int64
	if err := db.Model(&review.User{}).Where("reviewer_id LIKE ?", "PIPE-U%").Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 2 {
		t.Fatalf("users: got %d, want 2", userCount)
	}

	var productCount int64
	if err := db.Model(&review.Product{}).Where("asin LIKE ?", "PIPE-A%").Count(&productCount).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if productCount != 2 {
		t.Fatalf("products: got %d, want 2", productCount)
	}

	// The record with the malformed date is ingested with a null date.
	var u2 review.User
	if err := db.Where("reviewer_id = ?", "PIPE-U2").First(&u2).Error; err != nil {
		t.Fatalf("load PIPE-U2: %v", err)
	}
	var u2Review review.Review
	if err := db.Where("user_id = ?", u2.UserID).First(&u2Review).Error; err != nil {
		t.Fatalf("load PIPE-U2 review: %v", err)
	}
	if u2Review.ReviewDate != nil {
		t.Fatalf("expected null review date, got %v", u2Review.ReviewDate)
	}

	// Every committed review has its paired document, copied verbatim with
	// empty-string defaults.
	if len(docs.docs) != 3 {
		t.Fatalf("stored documents: got %d, want 3", len(docs.docs))
	}
	doc, ok := docs.docs[u2Review.ReviewID]
	if !ok {
		t.Fatalf("no document for review %d", u2Review.ReviewID)
	}
	if doc.ReviewText != "meh" || doc.Summary != "" {
		t.Fatalf("document fields: %+v", doc)
	}
	if doc.HelpfulUp != 0 || doc.HelpfulTotal != 0 {
		t.Fatalf("helpful defaults: %+v", doc)
	}

	// The ingest run is recorded as succeeded with stats.
	var run review.IngestRun
	if err := db.Where("file_path = ?", path).Order("created_at DESC").First(&run).Error; err != nil {
		t.Fatalf("load ingest run: %v", err)
	}
	if run.Status != review.IngestRunStatusSucceeded {
		t.Fatalf("run status: got %q", run.Status)
	}
	if len(run.Stats) == 0 {
		t.Fatalf("expected run stats to be recorded")
	}
}

func TestPipelineReingestAsymmetry(t *testing.T) {
	docs := newFakeDocStore()
	p := newTestPipeline(t, docs)
	db := testutil.DB(t)
	ctx := context.Background()

	lines := `{"reviewerID":"DUP-U1","asin":"DUP-A1","overall":5}
{"reviewerID":"DUP-U2","asin":"DUP-A1","overall":2}
`
	path := writeLines(t, "dup.json", lines)

	if _, err := p.ProcessFile(ctx, path, "Video_Games"); err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if _, err := p.ProcessFile(ctx, path, "Video_Games"); err != nil {
		t.Fatalf("ProcessFile (reingest): %v", err)
	}

	// Users and products resolve to the existing rows: no duplicates.
	var userCount, productCount int64
	if err := db.Model(&review.User{}).Where("reviewer_id LIKE ?", "DUP-U%").Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 2 {
		t.Fatalf("users duplicated: got %d, want 2", userCount)
	}
	if err := db.Model(&review.Product{}).Where("asin = ?", "DUP-A1").Count(&productCount).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if productCount != 1 {
		t.Fatalf("products duplicated: got %d, want 1", productCount)
	}

	// Reviews are append-only: re-ingesting the identical file doubles them.
	// This asymmetry is by contract, not a bug.
	var reviewCount int64
	err := db.Model(&review.Review{}).
		Where("user_id IN (?)", db.Model(&review.User{}).Select("user_id").Where("reviewer_id LIKE ?", "DUP-U%")).
		Count(&reviewCount).Error
	if err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if reviewCount != 4 {
		t.Fatalf("reviews: got %d, want 4", reviewCount)
	}
}

func TestPipelineStoreFailureAbortsFile(t *testing.T) {
	docs := newFakeDocStore()
	docs.failAfter = 1
	p := newTestPipeline(t, docs)
	db := testutil.DB(t)
	ctx := context.Background()

	path := writeLines(t, "abort.json", `{"reviewerID":"ABT-U1","asin":"ABT-A1","overall":5}
{"reviewerID":"ABT-U2","asin":"ABT-A2","overall":4}
`)

	if _, err := p.ProcessFile(ctx, path, "Digital_Music"); err == nil {
		t.Fatalf("expected store failure to abort the file")
	}

	// Relational writes for the file are rolled back wholesale.
	var userCount int64
	if err := db.Model(&review.User{}).Where("reviewer_id LIKE ?", "ABT-U%").Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 0 {
		t.Fatalf("expected rollback of users, got %d rows", userCount)
	}

	// The document written before the failure survives: documents are not
	// part of the relational commit. This is the documented cross-store
	// consistency gap.
	if len(docs.docs) != 1 {
		t.Fatalf("expected 1 orphaned document, got %d", len(docs.docs))
	}

	var run review.IngestRun
	if err := db.Where("file_path = ?", path).Order("created_at DESC").First(&run).Error; err != nil {
		t.Fatalf("load ingest run: %v", err)
	}
	if run.Status != review.IngestRunStatusFailed {
		t.Fatalf("run status: got %q", run.Status)
	}
	if run.Error == "" {
		t.Fatalf("expected run error to be recorded")
	}
}

func TestPipelineRunAbortsOnFirstFailure(t *testing.T) {
	docs := newFakeDocStore()
	p := newTestPipeline(t, docs)
	ctx := context.Background()

	good := writeLines(t, "good.json", `{"reviewerID":"RUN-U1","asin":"RUN-A1","overall":5}
`)
	m := &Manifest{Files: []ManifestEntry{
		{Path: good, Category: "Toys_and_Games"},
		{Path: filepath.Join(t.TempDir(), "does-not-exist.json"), Category: "Video_Games"},
		{Path: good, Category: "Digital_Music"},
	}}

	err := p.Run(ctx, m)
	if err == nil {
		t.Fatalf("expected run to abort on the missing file")
	}
	// Only the first file's document was written: the failure aborts the
	// whole multi-file run before the third entry.
	if len(docs.docs) != 1 {
		t.Fatalf("expected 1 document from the first file, got %d", len(docs.docs))
	}
}
