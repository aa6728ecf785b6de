package postgresadapter

import (
	"context"
	"errors"
	"strings"

	"caravan/contexts/engagement/review-service/ports"

	"gorm.io/gorm"
)

// AuthorDirectory enriches reviews with display data from the role profile
// tables owned by the session context. Read-only projection.
type AuthorDirectory struct {
	db *gorm.DB
}

func NewAuthorDirectory(db *gorm.DB) *AuthorDirectory {
	return &AuthorDirectory{db: db}
}

type authorRow struct {
	FirstName       string `gorm:"column:first_name"`
	LastName        string `gorm:"column:last_name"`
	ProfileImageURL string `gorm:"column:profile_image_url"`
}

func (d *AuthorDirectory) AuthorByUserID(ctx context.Context, userID string) (ports.AuthorDisplay, bool, error) {
	for _, table := range []string{"driver_profiles", "client_profiles"} {
		var row authorRow
		err := d.db.WithContext(ctx).
			Table(table).
			Where("user_id = ?", userID).
			Take(&row).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return ports.AuthorDisplay{}, false, err
		}
		return ports.AuthorDisplay{
			DisplayName: strings.TrimSpace(row.FirstName + " " + row.LastName),
			ImageURL:    row.ProfileImageURL,
		}, true, nil
	}
	return ports.AuthorDisplay{}, false, nil
}
