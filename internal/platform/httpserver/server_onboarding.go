package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "caravan/contexts/identity-access/onboarding-service/domain/errors"
	"caravan/contexts/identity-access/onboarding-service/ports"
	httptransport "caravan/contexts/identity-access/onboarding-service/transport/http"
)

// RequestOtp godoc
// @Summary      Send a one-time verification code to an email address
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body  httptransport.RequestOtpRequest  true  "target email"
// @Success      200  {object}  httptransport.StatusResponse
// @Router       /api/onboarding/v1/otp/request [post]
func (s *Server) handleRequestOtp(w http.ResponseWriter, r *http.Request) {
	var req httptransport.RequestOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Onboarding.Handler.RequestOtpHandler(r.Context(), req)
	if err != nil {
		s.writeOnboardingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req httptransport.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Onboarding.Handler.VerifyOtpHandler(r.Context(), req)
	if err != nil {
		s.writeOnboardingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	kind := ports.AccountKind(r.PathValue("kind"))
	if !ports.IsValidAccountKind(kind) {
		s.writeOnboardingDomainError(w, domainerrors.ErrUnknownKind)
		return
	}

	var req httptransport.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Onboarding.Handler.CreateAccountHandler(r.Context(), kind, req)
	if err != nil {
		s.writeOnboardingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) writeOnboardingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRequest), errors.Is(err, domainerrors.ErrUnknownKind):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrOtpNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "otp_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrOtpExpired):
		writeJSON(w, http.StatusGone, map[string]string{
			"code":    "otp_expired",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrOtpMismatch):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"code":    "otp_mismatch",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrProfileConflict):
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":    "profile_conflict",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrRegistrationFailed),
		errors.Is(err, domainerrors.ErrLoginFailed),
		errors.Is(err, domainerrors.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"code":    "upstream_failure",
			"message": err.Error(),
		})
	default:
		s.logger.Error("unhandled onboarding error",
			"event", "http_onboarding_error",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"code":    "internal_error",
			"message": "unexpected server error",
		})
	}
}
