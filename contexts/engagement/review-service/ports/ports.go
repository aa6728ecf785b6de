package ports

import (
	"context"
	"time"
)

type Review struct {
	ReviewID     string
	TargetUserID string
	AuthorID     string
	Score        int
	Comment      string
	CreatedAt    time.Time
}

// EnrichedReview is the read model: the stored row plus the author's display
// fields resolved at read time.
type EnrichedReview struct {
	Review
	AuthorDisplayName string
	AuthorImageURL    string
}

type Repository interface {
	CreateReview(ctx context.Context, review Review) error
	ListByTargetUserID(ctx context.Context, targetUserID string) ([]Review, error)
}

// AuthorDisplay is what the directory knows about a review author.
type AuthorDisplay struct {
	DisplayName string
	ImageURL    string
}

// AuthorDirectory resolves author display fields from the profile tables.
// Missing authors report ok=false; reads still succeed with blank display
// fields.
type AuthorDirectory interface {
	AuthorByUserID(ctx context.Context, userID string) (AuthorDisplay, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type CreateReviewInput struct {
	TargetUserID string
	AuthorID     string
	Score        int
	Comment      string
}
