package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestOtpRejectsInvalidEmail(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/v1/otp/request", strings.NewReader(`{"email":"not-an-email"}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateAccountRejectsUnknownKind(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/v1/accounts/admin", strings.NewReader(`{}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateAccountWithoutLiveOtpReturnsNotFound(t *testing.T) {
	server := newTestServer()
	body := `{"email":"ada@example.com","password":"s3cret-pass","otp_code":"123456","first_name":"Ada","last_name":"Lovelace","company_name":"Analytical Engines"}`
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/v1/accounts/driver", strings.NewReader(body))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOnboardingFlowOverHTTP(t *testing.T) {
	server := newTestServer()
	email := "ada@example.com"

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/v1/otp/request", strings.NewReader(fmt.Sprintf(`{"email":%q}`, email)))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("otp request: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	record, found, err := server.modules.Onboarding.Store.Get(context.Background(), email)
	if err != nil || !found {
		t.Fatalf("expected live otp record for %s, found=%v err=%v", email, found, err)
	}

	body := fmt.Sprintf(
		`{"email":%q,"password":"s3cret-pass","otp_code":%q,"first_name":"Ada","last_name":"Lovelace","company_name":"Analytical Engines"}`,
		email, record.Code,
	)
	req = httptest.NewRequest(http.MethodPost, "/api/onboarding/v1/accounts/driver", strings.NewReader(body))
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create account: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data payload, got %#v", payload["data"])
	}
	if data["access_token"] != "tok-test" {
		t.Fatalf("expected stub access token, got %#v", data["access_token"])
	}
	if data["kind"] != "driver" {
		t.Fatalf("expected driver kind, got %#v", data["kind"])
	}

	// The code is single-use; a replay must fail.
	req = httptest.NewRequest(http.MethodPost, "/api/onboarding/v1/accounts/driver", strings.NewReader(body))
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("otp replay: expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
