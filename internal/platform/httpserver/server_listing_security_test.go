package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caravan/internal/shared/events"
)

func TestCreateListingRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/organisations/org_test/listings", strings.NewReader(`{}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateListingRejectsUnknownCategory(t *testing.T) {
	server := newTestServer()
	body := `{"category_id":"d94b1c6a-52f1-4e3d-9a7b-8c2d1e0f3a4b","title":"Sofa to Lyon","publish":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/organisations/org_test/listings", strings.NewReader(body))
	req.Header.Set("X-User-Id", "usr_client")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func createPublishedListing(t *testing.T, server *Server, ownerID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"category_id":%q,"title":"Sofa to Lyon","price_amount":120,"currency":"EUR","publish":true}`, events.CategoryAnnouncement)
	req := httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/organisations/org_test/listings", strings.NewReader(body))
	req.Header.Set("X-User-Id", ownerID)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create listing: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload struct {
		Data struct {
			ListingID string `json:"listing_id"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload.Data.Status != "Published" {
		t.Fatalf("expected Published listing, got %q", payload.Data.Status)
	}
	return payload.Data.ListingID
}

func TestApplyThenConfirmOverHTTP(t *testing.T) {
	server := newTestServer()
	listingID := createPublishedListing(t, server, "usr_client")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/marketplace/v1/organisations/org_test/listings/"+listingID+"/apply",
		strings.NewReader(`{"driver_name":"Marc"}`),
	)
	req.Header.Set("X-User-Id", "usr_driver")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("apply: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(
		http.MethodPost,
		"/api/marketplace/v1/organisations/org_test/listings/"+listingID+"/confirm",
		strings.NewReader(`{"driver_id":"usr_driver"}`),
	)
	req.Header.Set("X-User-Id", "usr_client")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data payload, got %#v", payload["data"])
	}
	if data["status"] != "Ongoing" {
		t.Fatalf("expected Ongoing listing, got %#v", data["status"])
	}
}

func TestApplyConflictSurfacesAsConflictStatus(t *testing.T) {
	server := newTestServer()
	listingID := createPublishedListing(t, server, "usr_client")

	for i, wantCode := range []int{http.StatusOK, http.StatusConflict} {
		req := httptest.NewRequest(
			http.MethodPost,
			"/api/marketplace/v1/organisations/org_test/listings/"+listingID+"/apply",
			strings.NewReader(`{"driver_name":"Marc"}`),
		)
		req.Header.Set("X-User-Id", fmt.Sprintf("usr_driver_%d", i))
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != wantCode {
			t.Fatalf("apply %d: expected %d, got %d body=%s", i, wantCode, rr.Code, rr.Body.String())
		}
	}
}

func TestConfirmByNonOwnerIsForbidden(t *testing.T) {
	server := newTestServer()
	listingID := createPublishedListing(t, server, "usr_client")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/marketplace/v1/organisations/org_test/listings/"+listingID+"/apply",
		strings.NewReader(`{}`),
	)
	req.Header.Set("X-User-Id", "usr_driver")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("apply: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(
		http.MethodPost,
		"/api/marketplace/v1/organisations/org_test/listings/"+listingID+"/confirm",
		strings.NewReader(`{"driver_id":"usr_driver"}`),
	)
	req.Header.Set("X-User-Id", "usr_intruder")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("confirm: expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetUnknownListingReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/marketplace/v1/organisations/org_test/listings/lst_missing", nil)
	req.Header.Set("X-User-Id", "usr_client")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
