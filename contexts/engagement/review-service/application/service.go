package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "caravan/contexts/engagement/review-service/domain/errors"
	"caravan/contexts/engagement/review-service/ports"
)

type Service struct {
	Reviews ports.Repository
	Authors ports.AuthorDirectory
	Clock   ports.Clock
	IDs     ports.IDGenerator
	Logger  *slog.Logger
}

func (s Service) CreateReview(ctx context.Context, input ports.CreateReviewInput) (ports.Review, error) {
	target := strings.TrimSpace(input.TargetUserID)
	author := strings.TrimSpace(input.AuthorID)
	if target == "" || author == "" {
		return ports.Review{}, domainerrors.ErrInvalidRequest
	}
	if target == author {
		return ports.Review{}, domainerrors.ErrSelfReview
	}
	if input.Score < 1 || input.Score > 5 {
		return ports.Review{}, domainerrors.ErrScoreOutOfRange
	}

	reviewID, err := s.IDs.NewID(ctx)
	if err != nil {
		return ports.Review{}, err
	}
	review := ports.Review{
		ReviewID:     reviewID,
		TargetUserID: target,
		AuthorID:     author,
		Score:        input.Score,
		Comment:      strings.TrimSpace(input.Comment),
		CreatedAt:    s.now(),
	}
	if err := s.Reviews.CreateReview(ctx, review); err != nil {
		return ports.Review{}, err
	}

	ResolveLogger(s.Logger).Info("review created",
		"event", "review_created",
		"module", "engagement/review-service",
		"layer", "application",
		"review_id", review.ReviewID,
		"target_user_id", review.TargetUserID,
		"score", review.Score,
	)
	return review, nil
}

// ListForUser returns the user's reviews newest first, enriched with each
// author's display fields. An author missing from the directory leaves the
// display fields blank rather than failing the read.
func (s Service) ListForUser(ctx context.Context, targetUserID string) ([]ports.EnrichedReview, error) {
	if strings.TrimSpace(targetUserID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	reviews, err := s.Reviews.ListByTargetUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	// Authors repeat across reviews; resolve each one once.
	displayByAuthor := make(map[string]ports.AuthorDisplay)
	enriched := make([]ports.EnrichedReview, 0, len(reviews))
	for _, review := range reviews {
		display, seen := displayByAuthor[review.AuthorID]
		if !seen {
			resolved, found, err := s.Authors.AuthorByUserID(ctx, review.AuthorID)
			if err != nil {
				return nil, err
			}
			if found {
				display = resolved
			}
			displayByAuthor[review.AuthorID] = display
		}
		enriched = append(enriched, ports.EnrichedReview{
			Review:            review,
			AuthorDisplayName: display.DisplayName,
			AuthorImageURL:    display.ImageURL,
		})
	}
	return enriched, nil
}

// AverageScore is 0 for a user with no reviews.
func (s Service) AverageScore(ctx context.Context, targetUserID string) (float64, int, error) {
	if strings.TrimSpace(targetUserID) == "" {
		return 0, 0, domainerrors.ErrInvalidRequest
	}
	reviews, err := s.Reviews.ListByTargetUserID(ctx, targetUserID)
	if err != nil {
		return 0, 0, err
	}
	if len(reviews) == 0 {
		return 0, 0, nil
	}
	total := 0
	for _, review := range reviews {
		total += review.Score
	}
	return float64(total) / float64(len(reviews)), len(reviews), nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
