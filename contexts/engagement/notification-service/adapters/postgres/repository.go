package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"caravan/contexts/engagement/notification-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deviceTokenModel struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Token     string    `gorm:"column:token;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (deviceTokenModel) TableName() string { return "device_tokens" }

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

// RegisterToken is idempotent: re-registering an existing (user, token)
// pair is swallowed by the conflict clause.
func (r *Repository) RegisterToken(ctx context.Context, token ports.DeviceToken) error {
	row := deviceTokenModel{
		UserID:    token.UserID,
		Token:     token.Token,
		CreatedAt: token.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).
		Error
}

func (r *Repository) ListTokensByUserID(ctx context.Context, userID string) ([]ports.DeviceToken, error) {
	var rows []deviceTokenModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.DeviceToken, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DeviceToken{
			UserID:    row.UserID,
			Token:     row.Token,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}
