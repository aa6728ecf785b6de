package httpadapter

import (
	"context"
	"log/slog"

	"caravan/contexts/identity-access/onboarding-service/application"
	domainerrors "caravan/contexts/identity-access/onboarding-service/domain/errors"
	"caravan/contexts/identity-access/onboarding-service/ports"
	httptransport "caravan/contexts/identity-access/onboarding-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RequestOtpHandler(ctx context.Context, req httptransport.RequestOtpRequest) (httptransport.StatusResponse, error) {
	if err := req.Validate(); err != nil {
		return httptransport.StatusResponse{}, domainerrors.ErrInvalidRequest
	}
	if err := h.Service.RequestOtp(ctx, req.Email); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) VerifyOtpHandler(ctx context.Context, req httptransport.VerifyOtpRequest) (httptransport.StatusResponse, error) {
	if err := req.Validate(); err != nil {
		return httptransport.StatusResponse{}, domainerrors.ErrInvalidRequest
	}
	if err := h.Service.VerifyOtp(ctx, req.Email, req.OtpCode); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) CreateAccountHandler(
	ctx context.Context,
	kind ports.AccountKind,
	req httptransport.CreateAccountRequest,
) (httptransport.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return httptransport.SessionResponse{}, domainerrors.ErrInvalidRequest
	}

	session, err := h.Service.CreateAccount(ctx, ports.CreateAccountInput{
		Kind:        kind,
		Email:       req.Email,
		Password:    req.Password,
		OtpCode:     req.OtpCode,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		LegalForm:   req.LegalForm,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}

	resp := httptransport.SessionResponse{Status: "success"}
	resp.Data.AccessToken = session.AccessToken
	resp.Data.UserID = session.UserID
	resp.Data.OrganisationID = session.OrganisationID
	resp.Data.ProfileID = session.ProfileID
	resp.Data.Kind = string(session.Kind)
	return resp, nil
}
