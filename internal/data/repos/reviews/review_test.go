package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/reviewgraph-backend/internal/data/repos/testutil"
	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
)

func TestReviewRepoCreateReturnsID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	userRepo := NewUserRepo(db, testutil.Logger(t))
	productRepo := NewProductRepo(db, testutil.Logger(t))
	reviewRepo := NewReviewRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user, err := userRepo.GetOrCreateByReviewerID(ctx, tx, "REV-U1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateByReviewerID: %v", err)
	}
	product, err := productRepo.GetOrCreateByASIN(ctx, tx, "REV-A1", "Toys_and_Games")
	if err != nil {
		t.Fatalf("GetOrCreateByASIN: %v", err)
	}

	date := time.Date(2014, 3, 15, 0, 0, 0, 0, time.UTC)
	created, err := reviewRepo.Create(ctx, tx, &review.Review{
		UserID:     user.UserID,
		ProductID:  product.ProductID,
		Overall:    4.5,
		ReviewDate: &date,
		UnixTime:   1394841600,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ReviewID == 0 {
		t.Fatalf("expected generated surrogate id")
	}

	// A null date is a valid row, not an error.
	nullDate, err := reviewRepo.Create(ctx, tx, &review.Review{
		UserID:    user.UserID,
		ProductID: product.ProductID,
		Overall:   2,
	})
	if err != nil {
		t.Fatalf("Create (null date): %v", err)
	}
	if nullDate.ReviewID == created.ReviewID {
		t.Fatalf("surrogate ids must be distinct")
	}
}

func TestReviewRepoRatingsByUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	userRepo := NewUserRepo(db, testutil.Logger(t))
	productRepo := NewProductRepo(db, testutil.Logger(t))
	reviewRepo := NewReviewRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user, err := userRepo.GetOrCreateByReviewerID(ctx, tx, "RAT-U1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateByReviewerID: %v", err)
	}

	wanted := map[string]float64{"RAT-A": 5, "RAT-B": 3, "RAT-C": 4}
	for asin, rating := range wanted {
		p, err := productRepo.GetOrCreateByASIN(ctx, tx, asin, "Video_Games")
		if err != nil {
			t.Fatalf("GetOrCreateByASIN(%s): %v", asin, err)
		}
		if _, err := reviewRepo.Create(ctx, tx, &review.Review{
			UserID: user.UserID, ProductID: p.ProductID, Overall: rating,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	ratings, err := reviewRepo.RatingsByUser(ctx, tx, user.UserID)
	if err != nil {
		t.Fatalf("RatingsByUser: %v", err)
	}
	if len(ratings) != len(wanted) {
		t.Fatalf("expected %d entries, got %d", len(wanted), len(ratings))
	}
	for asin, rating := range wanted {
		if ratings[asin] != rating {
			t.Fatalf("rating for %s: got %v, want %v", asin, ratings[asin], rating)
		}
	}
}

func TestReviewRepoDistinctQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	userRepo := NewUserRepo(db, testutil.Logger(t))
	productRepo := NewProductRepo(db, testutil.Logger(t))
	reviewRepo := NewReviewRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u1, _ := userRepo.GetOrCreateByReviewerID(ctx, tx, "DIS-U1", nil)
	u2, _ := userRepo.GetOrCreateByReviewerID(ctx, tx, "DIS-U2", nil)
	toys, _ := productRepo.GetOrCreateByASIN(ctx, tx, "DIS-TOY", "Toys_and_Games")
	game, _ := productRepo.GetOrCreateByASIN(ctx, tx, "DIS-GAME", "Video_Games")

	// u1 reviews the toy twice with identical triples plus the game once;
	// u2 reviews only the toy.
	for i := 0; i < 2; i++ {
		if _, err := reviewRepo.Create(ctx, tx, &review.Review{
			UserID: u1.UserID, ProductID: toys.ProductID, Overall: 5,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := reviewRepo.Create(ctx, tx, &review.Review{
		UserID: u1.UserID, ProductID: game.ProductID, Overall: 4,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := reviewRepo.Create(ctx, tx, &review.Review{
		UserID: u2.UserID, ProductID: toys.ProductID, Overall: 1,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reviewers, err := reviewRepo.DistinctReviewersForProduct(ctx, tx, toys.ProductID)
	if err != nil {
		t.Fatalf("DistinctReviewersForProduct: %v", err)
	}
	if len(reviewers) != 2 {
		t.Fatalf("expected 2 distinct triples, got %d: %+v", len(reviewers), reviewers)
	}

	ids, err := reviewRepo.DistinctReviewerIDsForProduct(ctx, tx, toys.ProductID)
	if err != nil {
		t.Fatalf("DistinctReviewerIDsForProduct: %v", err)
	}
	if len(ids) != 2 || ids[0] != u1.UserID || ids[1] != u2.UserID {
		t.Fatalf("unexpected reviewer ids: %v", ids)
	}

	categories, err := reviewRepo.DistinctCategoriesForUser(ctx, tx, u1.UserID)
	if err != nil {
		t.Fatalf("DistinctCategoriesForUser: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Toys_and_Games" || categories[1] != "Video_Games" {
		t.Fatalf("unexpected categories: %v", categories)
	}

	categories, err = reviewRepo.DistinctCategoriesForUser(ctx, tx, u2.UserID)
	if err != nil {
		t.Fatalf("DistinctCategoriesForUser: %v", err)
	}
	if len(categories) != 1 || categories[0] != "Toys_and_Games" {
		t.Fatalf("unexpected categories: %v", categories)
	}
}
