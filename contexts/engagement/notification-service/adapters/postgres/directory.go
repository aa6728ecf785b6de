package postgresadapter

import (
	"context"
	"errors"
	"time"

	"caravan/contexts/engagement/notification-service/ports"

	"gorm.io/gorm"
)

// AudienceDirectory resolves notification targets from the role profile
// tables owned by the session context. Read-only projection; writes go
// through that context.
type AudienceDirectory struct {
	db *gorm.DB
}

func NewAudienceDirectory(db *gorm.DB) *AudienceDirectory {
	return &AudienceDirectory{db: db}
}

type profileEmailRow struct {
	UserID string `gorm:"column:user_id"`
	Email  string `gorm:"column:email"`
}

func (d *AudienceDirectory) ListUserIDsByRole(ctx context.Context, role ports.Role) ([]string, error) {
	table := "client_profiles"
	if role == ports.RoleDriver {
		table = "driver_profiles"
	}

	var userIDs []string
	if err := d.db.WithContext(ctx).
		Table(table).
		Pluck("user_id", &userIDs).
		Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (d *AudienceDirectory) EmailByUserID(ctx context.Context, userID string) (string, bool, error) {
	for _, table := range []string{"driver_profiles", "client_profiles"} {
		var row profileEmailRow
		err := d.db.WithContext(ctx).
			Table(table).
			Where("user_id = ?", userID).
			Take(&row).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		if row.Email != "" {
			return row.Email, true, nil
		}
	}
	return "", false, nil
}

// SystemClock implements ports.Clock using wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
