package postgresadapter

import (
	"context"
	"errors"
	"time"

	"caravan/contexts/identity-access/onboarding-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the Postgres OTP ledger, used when no Redis address is
// configured.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type otpModel struct {
	Email     string    `gorm:"column:email;primaryKey"`
	Code      string    `gorm:"column:code"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (otpModel) TableName() string {
	return "otp_verifications"
}

func (r *Repository) Put(ctx context.Context, record ports.OtpRecord) error {
	row := otpModel{
		Email:     record.Email,
		Code:      record.Code,
		ExpiresAt: record.ExpiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) Get(ctx context.Context, email string) (ports.OtpRecord, bool, error) {
	var row otpModel
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OtpRecord{}, false, nil
		}
		return ports.OtpRecord{}, false, err
	}
	return ports.OtpRecord{
		Email:     row.Email,
		Code:      row.Code,
		ExpiresAt: row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&otpModel{}).
		Error
}
