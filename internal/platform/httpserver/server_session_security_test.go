package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSessionContextRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/session/v1/context", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSessionContextUnknownUserResolvesToNoProfile(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/session/v1/context", nil)
	req.Header.Set("X-User-Id", "usr_unknown")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["status"] != "success" {
		t.Fatalf("expected success status, got %#v", payload["status"])
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data payload, got %#v", payload["data"])
	}
	if data["primary_role"] != "NO_PROFILE" {
		t.Fatalf("expected NO_PROFILE primary role, got %#v", data["primary_role"])
	}
}

func TestUpdateDriverProfileRejectsInvalidJSON(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPut, "/api/session/v1/profiles/driver", strings.NewReader("{not json"))
	req.Header.Set("X-User-Id", "usr_1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUpdateDriverProfileWithoutProfileReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPut, "/api/session/v1/profiles/driver", strings.NewReader(`{"first_name":"Ada"}`))
	req.Header.Set("X-User-Id", "usr_no_profile")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
