package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"caravan/contexts/engagement/review-service/adapters/memory"
	domainerrors "caravan/contexts/engagement/review-service/domain/errors"
	"caravan/contexts/engagement/review-service/ports"
)

func newTestService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return Service{Reviews: store, Authors: store, Clock: store, IDs: store}, store
}

func TestCreateReviewValidation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateReview(ctx, ports.CreateReviewInput{TargetUserID: "user_1", AuthorID: "user_1", Score: 4})
	if !errors.Is(err, domainerrors.ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}

	for _, score := range []int{0, 6, -1} {
		_, err := service.CreateReview(ctx, ports.CreateReviewInput{TargetUserID: "user_1", AuthorID: "user_2", Score: score})
		if !errors.Is(err, domainerrors.ErrScoreOutOfRange) {
			t.Fatalf("score %d: expected ErrScoreOutOfRange, got %v", score, err)
		}
	}
}

func TestListForUserEnrichedNewestFirst(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()
	store.SetAuthor("author_1", ports.AuthorDisplay{DisplayName: "Dana Driver", ImageURL: "https://img/dana.png"})

	store.SetNow(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	if _, err := service.CreateReview(ctx, ports.CreateReviewInput{TargetUserID: "user_1", AuthorID: "author_1", Score: 5, Comment: "great ride"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.SetNow(time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC))
	if _, err := service.CreateReview(ctx, ports.CreateReviewInput{TargetUserID: "user_1", AuthorID: "author_unknown", Score: 3}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	reviews, err := service.ListForUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(reviews))
	}
	if !reviews[0].CreatedAt.After(reviews[1].CreatedAt) {
		t.Fatalf("reviews not newest first: %v then %v", reviews[0].CreatedAt, reviews[1].CreatedAt)
	}
	if reviews[0].AuthorDisplayName != "" {
		t.Fatalf("unknown author should have blank display fields, got %q", reviews[0].AuthorDisplayName)
	}
	if reviews[1].AuthorDisplayName != "Dana Driver" || reviews[1].AuthorImageURL != "https://img/dana.png" {
		t.Fatalf("enrichment missing: %+v", reviews[1])
	}
}

func TestAverageScore(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	average, count, err := service.AverageScore(ctx, "user_1")
	if err != nil || average != 0 || count != 0 {
		t.Fatalf("empty average = (%v, %d, %v), want (0, 0, nil)", average, count, err)
	}

	for _, score := range []int{5, 4, 3} {
		if _, err := service.CreateReview(ctx, ports.CreateReviewInput{TargetUserID: "user_1", AuthorID: "author_1", Score: score}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	average, count, err = service.AverageScore(ctx, "user_1")
	if err != nil {
		t.Fatalf("average failed: %v", err)
	}
	if count != 3 || average != 4 {
		t.Fatalf("average = (%v, %d), want (4, 3)", average, count)
	}
}
