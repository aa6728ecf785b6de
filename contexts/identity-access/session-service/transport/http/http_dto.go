package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ProfileDTO struct {
	ProfileID       string `json:"profile_id"`
	UserID          string `json:"user_id"`
	OrganisationID  string `json:"organisation_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	CompanyName     string `json:"company_name"`
	ProfileImageURL string `json:"profile_image_url"`
	VehiclePlate    string `json:"vehicle_plate,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type SessionContextResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID       string      `json:"user_id"`
		Roles        []string    `json:"roles"`
		PrimaryRole  string      `json:"primary_role"`
		Driver       *ProfileDTO `json:"driver_profile,omitempty"`
		Client       *ProfileDTO `json:"client_profile,omitempty"`
		Organisation struct {
			OrganisationID string `json:"organisation_id"`
			DisplayName    string `json:"display_name"`
		} `json:"organisation"`
	} `json:"data"`
}

type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	PhoneNumber     *string `json:"phone_number"`
	CompanyName     *string `json:"company_name"`
	ProfileImageURL *string `json:"profile_image_url"`
	VehiclePlate    *string `json:"vehicle_plate"`
}

type ProfileResponse struct {
	Status string     `json:"status"`
	Data   ProfileDTO `json:"data"`
}

type DriverListResponse struct {
	Status string       `json:"status"`
	Data   []ProfileDTO `json:"data"`
}
