package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "caravan/contexts/marketplace/listing-service/domain/errors"
	httptransport "caravan/contexts/marketplace/listing-service/transport/http"
)

// CreateListing godoc
// @Summary      Publish or draft a listing in one of the marketplace categories
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        X-User-Id        header  string  true  "caller user id"
// @Param        organisation_id  path    string  true  "organisation id"
// @Param        request          body    httptransport.CreateListingRequest  true  "listing fields"
// @Success      201  {object}  httptransport.ListingResponse
// @Router       /api/marketplace/v1/organisations/{organisation_id}/listings [post]
func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeListingDomainError(w, domainerrors.ErrInvalidRequest)
		return
	}

	resp, err := s.modules.Listings.Handler.CreateListingHandler(r.Context(), r.PathValue("organisation_id"), callerID, req)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	resp, err := s.modules.Listings.Handler.GetListingHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"))
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeListingDomainError(w, domainerrors.ErrInvalidRequest)
		return
	}

	resp, err := s.modules.Listings.Handler.UpdateListingHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"), callerID, req)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.modules.Listings.Handler.DeleteListingHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"), callerID)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	resp, err := s.modules.Listings.Handler.ListByCategoryHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("category_id"))
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByClient(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	resp, err := s.modules.Listings.Handler.ListByClientHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("client_id"))
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByReservedDriver(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	resp, err := s.modules.Listings.Handler.ListByReservedDriverHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("driver_id"))
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	driverID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Listings.Handler.ApplyHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"), driverID, req)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	driverID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	resp, err := s.modules.Listings.Handler.CancelReservationHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"), driverID)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeListingDomainError(w, domainerrors.ErrInvalidRequest)
		return
	}

	resp, err := s.modules.Listings.Handler.ConfirmHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"), callerID, req)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}

	resp, err := s.modules.Listings.Handler.AcceptHandler(r.Context(), r.PathValue("organisation_id"), r.PathValue("listing_id"), clientID, req)
	if err != nil {
		s.writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "missing_user",
			"message": "X-User-Id header is required",
		})
		return "", false
	}
	return userID, true
}

func (s *Server) writeListingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRequest), errors.Is(err, domainerrors.ErrUnknownCategory):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{
			"code":    "forbidden",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrListingNotFound), errors.Is(err, domainerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrAlreadyReserved):
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":    "already_reserved",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrWrongStatus):
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":    "wrong_status",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrVersionMismatch):
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":    "version_conflict",
			"message": err.Error(),
		})
	default:
		s.logger.Error("unhandled listing error",
			"event", "http_listing_error",
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
