package postgresadapter

import (
	"time"

	"caravan/contexts/identity-access/session-service/ports"

	"github.com/google/uuid"
)

type driverProfileModel struct {
	ProfileID       string    `gorm:"column:profile_id;primaryKey"`
	UserID          string    `gorm:"column:user_id;uniqueIndex"`
	OrganisationID  string    `gorm:"column:organisation_id;index"`
	FirstName       string    `gorm:"column:first_name"`
	LastName        string    `gorm:"column:last_name"`
	Email           string    `gorm:"column:email"`
	PhoneNumber     string    `gorm:"column:phone_number"`
	CompanyName     string    `gorm:"column:company_name"`
	ProfileImageURL string    `gorm:"column:profile_image_url"`
	VehiclePlate    string    `gorm:"column:vehicle_plate"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (driverProfileModel) TableName() string {
	return "driver_profiles"
}

func (m driverProfileModel) toPort() ports.DriverProfile {
	return ports.DriverProfile{
		ProfileID:       m.ProfileID,
		UserID:          m.UserID,
		OrganisationID:  m.OrganisationID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		PhoneNumber:     m.PhoneNumber,
		CompanyName:     m.CompanyName,
		ProfileImageURL: m.ProfileImageURL,
		VehiclePlate:    m.VehiclePlate,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type clientProfileModel struct {
	ProfileID       string    `gorm:"column:profile_id;primaryKey"`
	UserID          string    `gorm:"column:user_id;uniqueIndex"`
	OrganisationID  string    `gorm:"column:organisation_id;index"`
	FirstName       string    `gorm:"column:first_name"`
	LastName        string    `gorm:"column:last_name"`
	Email           string    `gorm:"column:email"`
	PhoneNumber     string    `gorm:"column:phone_number"`
	CompanyName     string    `gorm:"column:company_name"`
	ProfileImageURL string    `gorm:"column:profile_image_url"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (clientProfileModel) TableName() string {
	return "client_profiles"
}

func (m clientProfileModel) toPort() ports.ClientProfile {
	return ports.ClientProfile{
		ProfileID:       m.ProfileID,
		UserID:          m.UserID,
		OrganisationID:  m.OrganisationID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		PhoneNumber:     m.PhoneNumber,
		CompanyName:     m.CompanyName,
		ProfileImageURL: m.ProfileImageURL,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func newProfileID() string {
	return uuid.NewString()
}
