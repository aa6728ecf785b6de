package httpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	notificationservice "caravan/contexts/engagement/notification-service"
	reviewservice "caravan/contexts/engagement/review-service"
	onboardingservice "caravan/contexts/identity-access/onboarding-service"
	sessionservice "caravan/contexts/identity-access/session-service"
	listingservice "caravan/contexts/marketplace/listing-service"
	"caravan/internal/platform/broadcast"
	"caravan/internal/platform/observability"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "caravan/internal/platform/httpserver/docs"
)

// Modules bundles the context modules the server routes into.
type Modules struct {
	Session       sessionservice.Module
	Onboarding    onboardingservice.Module
	Listings      listingservice.Module
	Notifications notificationservice.Module
	Reviews       reviewservice.Module
}

type Dependencies struct {
	Logger          *slog.Logger
	Addr            string
	Metrics         *observability.Metrics
	Hub             *broadcast.Hub
	OtpRequestRate  float64
	OtpRequestBurst int
}

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	metrics    *observability.Metrics
	hub        *broadcast.Hub
	otpLimiter *rate.Limiter
	modules    Modules
}

func New(modules Modules, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := deps.Addr
	if addr == "" {
		addr = ":8080"
	}
	otpRate := deps.OtpRequestRate
	if otpRate <= 0 {
		otpRate = 1
	}
	otpBurst := deps.OtpRequestBurst
	if otpBurst <= 0 {
		otpBurst = 5
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		metrics:    deps.Metrics,
		hub:        deps.Hub,
		otpLimiter: rate.NewLimiter(rate.Limit(otpRate), otpBurst),
		modules:    modules,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /live/listings", s.handleLiveListings)

	s.handle("GET /api/session/v1/context", "session_context", s.handleGetSessionContext)
	s.handle("PUT /api/session/v1/profiles/driver", "update_driver_profile", s.handleUpdateDriverProfile)
	s.handle("PUT /api/session/v1/profiles/client", "update_client_profile", s.handleUpdateClientProfile)
	s.handle("GET /api/session/v1/organisations/{organisation_id}/drivers", "list_organisation_drivers", s.handleListOrganisationDrivers)

	s.handle("POST /api/onboarding/v1/otp/request", "request_otp", s.rateLimited(s.otpLimiter, s.handleRequestOtp))
	s.handle("POST /api/onboarding/v1/otp/verify", "verify_otp", s.handleVerifyOtp)
	s.handle("POST /api/onboarding/v1/accounts/{kind}", "create_account", s.handleCreateAccount)

	s.handle("POST /api/marketplace/v1/organisations/{organisation_id}/listings", "create_listing", s.handleCreateListing)
	s.handle("GET /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}", "get_listing", s.handleGetListing)
	s.handle("PUT /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}", "update_listing", s.handleUpdateListing)
	s.handle("DELETE /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}", "delete_listing", s.handleDeleteListing)
	s.handle("GET /api/marketplace/v1/organisations/{organisation_id}/categories/{category_id}/listings", "list_listings_by_category", s.handleListByCategory)
	s.handle("GET /api/marketplace/v1/organisations/{organisation_id}/clients/{client_id}/listings", "list_listings_by_client", s.handleListByClient)
	s.handle("GET /api/marketplace/v1/organisations/{organisation_id}/drivers/{driver_id}/reservations", "list_listings_by_driver", s.handleListByReservedDriver)
	s.handle("POST /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}/apply", "apply_listing", s.handleApply)
	s.handle("POST /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}/cancel-reservation", "cancel_reservation", s.handleCancelReservation)
	s.handle("POST /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}/confirm", "confirm_listing", s.handleConfirm)
	s.handle("POST /api/marketplace/v1/organisations/{organisation_id}/listings/{listing_id}/accept", "accept_listing", s.handleAccept)

	s.handle("POST /api/notifications/v1/device-tokens", "register_device_token", s.handleRegisterDeviceToken)

	s.handle("POST /api/reviews/v1/reviews", "create_review", s.handleCreateReview)
	s.handle("GET /api/reviews/v1/users/{user_id}/reviews", "list_reviews", s.handleListReviews)
	s.handle("GET /api/reviews/v1/users/{user_id}/score", "average_score", s.handleAverageScore)
}

// handle registers a route behind the request metrics middleware.
func (s *Server) handle(pattern string, route string, fn http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(route, fn))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.metrics.HTTPRequestsTotal.
			WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).
			Inc()
		s.metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method).
			Observe(time.Since(started).Seconds())
	})
}

func (s *Server) rateLimited(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"code":    "rate_limited",
				"message": "too many requests, retry later",
			})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLiveListings streams listing updates as server-sent events. This is
// the live-update surface behind the broadcast hub.
func (s *Server) handleLiveListings(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"code":    "live_updates_disabled",
			"message": "live updates are not enabled on this deployment",
		})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"code":    "streaming_unsupported",
			"message": "response writer does not support streaming",
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream, cancel := s.hub.Subscribe(16)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, open := <-stream:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", frame.Event, frame.Payload)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
