package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "caravan/contexts/identity-access/session-service/domain/errors"
	httptransport "caravan/contexts/identity-access/session-service/transport/http"
)

// GetSessionContext godoc
// @Summary      Resolve the caller's session context
// @Tags         session
// @Produce      json
// @Param        X-User-Id  header  string  true  "caller user id"
// @Success      200  {object}  httptransport.SessionContextResponse
// @Router       /api/session/v1/context [get]
func (s *Server) handleGetSessionContext(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "missing_user",
			"message": "X-User-Id header is required",
		})
		return
	}

	resp, err := s.modules.Session.Handler.GetSessionContextHandler(r.Context(), userID)
	if err != nil {
		s.writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDriverProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "missing_user",
			"message": "X-User-Id header is required",
		})
		return
	}

	var req httptransport.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Session.Handler.UpdateDriverProfileHandler(r.Context(), userID, req)
	if err != nil {
		s.writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateClientProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "missing_user",
			"message": "X-User-Id header is required",
		})
		return
	}

	var req httptransport.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Session.Handler.UpdateClientProfileHandler(r.Context(), userID, req)
	if err != nil {
		s.writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOrganisationDrivers(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "missing_user",
			"message": "X-User-Id header is required",
		})
		return
	}

	organisationID := r.PathValue("organisation_id")
	resp, err := s.modules.Session.Handler.ListOrganisationDriversHandler(r.Context(), organisationID)
	if err != nil {
		s.writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeSessionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrProfileNotFound), errors.Is(err, domainerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrDuplicateProfile):
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":    "duplicate_profile",
			"message": err.Error(),
		})
	default:
		s.logger.Error("unhandled session error",
			"event", "http_session_error",
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
