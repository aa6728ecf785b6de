package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "caravan/contexts/identity-access/session-service/domain/errors"
	"caravan/contexts/identity-access/session-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

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

func (r *Repository) GetDriverProfileByUserID(ctx context.Context, userID string) (ports.DriverProfile, bool, error) {
	var row driverProfileModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DriverProfile{}, false, nil
		}
		return ports.DriverProfile{}, false, err
	}
	return row.toPort(), true, nil
}

func (r *Repository) GetClientProfileByUserID(ctx context.Context, userID string) (ports.ClientProfile, bool, error) {
	var row clientProfileModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ClientProfile{}, false, nil
		}
		return ports.ClientProfile{}, false, err
	}
	return row.toPort(), true, nil
}

func (r *Repository) ListDriverProfilesByOrganisation(ctx context.Context, organisationID string) ([]ports.DriverProfile, error) {
	var rows []driverProfileModel
	if err := r.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("user_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.DriverProfile, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) CreateDriverProfile(ctx context.Context, input ports.CreateDriverProfileInput, now time.Time) (ports.DriverProfile, error) {
	row := driverProfileModel{
		ProfileID:       newProfileID(),
		UserID:          input.UserID,
		OrganisationID:  input.OrganisationID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		CompanyName:     input.CompanyName,
		ProfileImageURL: input.ProfileImageURL,
		VehiclePlate:    input.VehiclePlate,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.DriverProfile{}, domainerrors.ErrDuplicateProfile
		}
		return ports.DriverProfile{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) CreateClientProfile(ctx context.Context, input ports.CreateClientProfileInput, now time.Time) (ports.ClientProfile, error) {
	row := clientProfileModel{
		ProfileID:       newProfileID(),
		UserID:          input.UserID,
		OrganisationID:  input.OrganisationID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		CompanyName:     input.CompanyName,
		ProfileImageURL: input.ProfileImageURL,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ClientProfile{}, domainerrors.ErrDuplicateProfile
		}
		return ports.ClientProfile{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdateDriverProfile(ctx context.Context, userID string, patch ports.DriverProfilePatch, now time.Time) (ports.DriverProfile, error) {
	updates := patchColumns(map[string]*string{
		"first_name":        patch.FirstName,
		"last_name":         patch.LastName,
		"phone_number":      patch.PhoneNumber,
		"company_name":      patch.CompanyName,
		"profile_image_url": patch.ProfileImageURL,
		"vehicle_plate":     patch.VehiclePlate,
	})
	updates["updated_at"] = now.UTC()

	result := r.db.WithContext(ctx).
		Model(&driverProfileModel{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return ports.DriverProfile{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.DriverProfile{}, domainerrors.ErrProfileNotFound
	}

	profile, _, err := r.GetDriverProfileByUserID(ctx, userID)
	return profile, err
}

func (r *Repository) UpdateClientProfile(ctx context.Context, userID string, patch ports.ClientProfilePatch, now time.Time) (ports.ClientProfile, error) {
	updates := patchColumns(map[string]*string{
		"first_name":        patch.FirstName,
		"last_name":         patch.LastName,
		"phone_number":      patch.PhoneNumber,
		"company_name":      patch.CompanyName,
		"profile_image_url": patch.ProfileImageURL,
	})
	updates["updated_at"] = now.UTC()

	result := r.db.WithContext(ctx).
		Model(&clientProfileModel{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return ports.ClientProfile{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ClientProfile{}, domainerrors.ErrProfileNotFound
	}

	profile, _, err := r.GetClientProfileByUserID(ctx, userID)
	return profile, err
}

func patchColumns(candidates map[string]*string) map[string]any {
	updates := make(map[string]any, len(candidates))
	for column, value := range candidates {
		if value != nil {
			updates[column] = *value
		}
	}
	return updates
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
