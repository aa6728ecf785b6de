package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "caravan/contexts/engagement/notification-service/domain/errors"
	httptransport "caravan/contexts/engagement/notification-service/transport/http"
)

func (s *Server) handleRegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.RegisterDeviceTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeNotificationDomainError(w, domainerrors.ErrInvalidRequest)
		return
	}

	resp, err := s.modules.Notifications.Handler.RegisterDeviceTokenHandler(r.Context(), userID, req)
	if err != nil {
		s.writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRequest), errors.Is(err, domainerrors.ErrUnknownEvent):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "not_found",
			"message": err.Error(),
		})
	default:
		s.logger.Error("unhandled notification error",
			"event", "http_notification_error",
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
