package http

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterDeviceTokenRequest struct {
	Token string `json:"token" validate:"required,max=512"`
}

func (r RegisterDeviceTokenRequest) Validate() error {
	return validate.Struct(r)
}

type StatusResponse struct {
	Status string `json:"status"`
}
