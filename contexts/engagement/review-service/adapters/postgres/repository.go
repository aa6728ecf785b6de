package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"caravan/contexts/engagement/review-service/ports"

	"gorm.io/gorm"
)

type reviewModel struct {
	ReviewID     string    `gorm:"column:review_id;primaryKey"`
	TargetUserID string    `gorm:"column:target_user_id;index"`
	AuthorID     string    `gorm:"column:author_id;index"`
	Score        int       `gorm:"column:score"`
	Comment      string    `gorm:"column:comment"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func (m reviewModel) toPort() ports.Review {
	return ports.Review{
		ReviewID:     m.ReviewID,
		TargetUserID: m.TargetUserID,
		AuthorID:     m.AuthorID,
		Score:        m.Score,
		Comment:      m.Comment,
		CreatedAt:    m.CreatedAt,
	}
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateReview(ctx context.Context, review ports.Review) error {
	row := reviewModel{
		ReviewID:     review.ReviewID,
		TargetUserID: review.TargetUserID,
		AuthorID:     review.AuthorID,
		Score:        review.Score,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListByTargetUserID(ctx context.Context, targetUserID string) ([]ports.Review, error) {
	var rows []reviewModel
	if err := r.db.WithContext(ctx).
		Where("target_user_id = ?", targetUserID).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.Review, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}
