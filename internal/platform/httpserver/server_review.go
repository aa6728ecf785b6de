package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "caravan/contexts/engagement/review-service/domain/errors"
	httptransport "caravan/contexts/engagement/review-service/transport/http"
)

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	authorID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req httptransport.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeReviewDomainError(w, domainerrors.ErrInvalidRequest)
		return
	}

	resp, err := s.modules.Reviews.Handler.CreateReviewHandler(r.Context(), authorID, req)
	if err != nil {
		s.writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	resp, err := s.modules.Reviews.Handler.ListReviewsHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAverageScore(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	resp, err := s.modules.Reviews.Handler.AverageScoreHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeReviewDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrSelfReview):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"code":    "self_review",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrScoreOutOfRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "score_out_of_range",
			"message": err.Error(),
		})
	case errors.Is(err, domainerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "not_found",
			"message": err.Error(),
		})
	default:
		s.logger.Error("unhandled review error",
			"event", "http_review_error",
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
