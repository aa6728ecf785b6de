package http

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RequestOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r RequestOtpRequest) Validate() error {
	return validate.Struct(r)
}

type VerifyOtpRequest struct {
	Email   string `json:"email" validate:"required,email"`
	OtpCode string `json:"otp_code" validate:"required,len=6,numeric"`
}

func (r VerifyOtpRequest) Validate() error {
	return validate.Struct(r)
}

type CreateAccountRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	OtpCode     string `json:"otp_code" validate:"required,len=6,numeric"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	CompanyName string `json:"company_name" validate:"required"`
	LegalForm   string `json:"legal_form"`
	Description string `json:"description"`
}

func (r CreateAccountRequest) Validate() error {
	return validate.Struct(r)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	Status string `json:"status"`
	Data   struct {
		AccessToken    string `json:"access_token"`
		UserID         string `json:"user_id"`
		OrganisationID string `json:"organisation_id"`
		ProfileID      string `json:"profile_id"`
		Kind           string `json:"kind"`
	} `json:"data"`
}
