package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const otpEmailTemplate = "otp_verification"

// MailerClient sends verification codes through the external notification
// service's email endpoint.
type MailerClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewMailerClient(baseURL string) *MailerClient {
	return &MailerClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *MailerClient) SendOtpEmail(ctx context.Context, email string, code string) error {
	body, err := json.Marshal(map[string]any{
		"template_id": otpEmailTemplate,
		"recipients":  []string{email},
		"metadata":    map[string]string{"otp_code": code},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return upstreamError(resp)
	}
	return nil
}
