package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"caravan/contexts/identity-access/onboarding-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClient talks to the external auth service. The machine-to-machine
// token is cached and reused until shortly before its JWT exp claim.
type IdentityClient struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTP         *http.Client

	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

func NewIdentityClient(baseURL string, clientID string, clientSecret string) *IdentityClient {
	return &IdentityClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTP:         &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *IdentityClient) ServiceToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.cachedToken != "" && time.Now().UTC().Before(c.tokenExpiry) {
		token := c.cachedToken
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	body, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/oauth/token", "", body, http.StatusOK, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", fmt.Errorf("identity service returned empty service token")
	}

	c.mu.Lock()
	c.cachedToken = out.AccessToken
	c.tokenExpiry = tokenExpiry(out.AccessToken)
	c.mu.Unlock()
	return out.AccessToken, nil
}

func (c *IdentityClient) Register(ctx context.Context, input ports.RegisterUserInput, serviceToken string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":        input.Email,
		"password":     input.Password,
		"first_name":   input.FirstName,
		"last_name":    input.LastName,
		"phone_number": input.PhoneNumber,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		UserID string `json:"user_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/users", serviceToken, body, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (c *IdentityClient) Login(ctx context.Context, email string, password string, serviceToken string) (ports.LoginResult, bool, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return ports.LoginResult{}, false, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/login", serviceToken, body)
	if err != nil {
		return ports.LoginResult{}, false, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return ports.LoginResult{}, false, err
	}
	defer resp.Body.Close()

	// The upstream answers wrong credentials with 401 and an empty body.
	// That is a soft fail, not a transport error.
	if resp.StatusCode == http.StatusUnauthorized {
		return ports.LoginResult{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return ports.LoginResult{}, false, upstreamError(resp)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
		Email       string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.LoginResult{}, false, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return ports.LoginResult{}, false, nil
	}
	return ports.LoginResult{
		AccessToken: out.AccessToken,
		UserID:      out.UserID,
		Email:       out.Email,
	}, true, nil
}

func (c *IdentityClient) do(ctx context.Context, method string, path string, bearer string, body []byte, wantStatus int, out any) error {
	req, err := c.newRequest(ctx, method, path, bearer, body)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return upstreamError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *IdentityClient) newRequest(ctx context.Context, method string, path string, bearer string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req, nil
}

// upstreamError carries the upstream message verbatim so onboarding can pass
// it through to the client.
func upstreamError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, payload.Message)
		}
		if payload.Error != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, payload.Error)
		}
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

// tokenExpiry reads the exp claim without verifying the signature; the
// token is only inspected to schedule the next refresh, never trusted for
// authorization decisions.
func tokenExpiry(token string) time.Time {
	fallback := time.Now().UTC().Add(5 * time.Minute)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return fallback
	}
	expiresAt, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return fallback
	}
	return expiresAt.Time.UTC().Add(-30 * time.Second)
}
