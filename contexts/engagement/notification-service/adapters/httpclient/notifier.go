package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NotifierClient delivers pushes and emails through the external
// notification gateway.
type NotifierClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewNotifierClient(baseURL string) *NotifierClient {
	return &NotifierClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *NotifierClient) SendPush(ctx context.Context, token string, templateID string, metadata map[string]string) error {
	return c.post(ctx, "/pushes", map[string]any{
		"template_id": templateID,
		"token":       token,
		"metadata":    metadata,
	})
}

func (c *NotifierClient) SendEmail(ctx context.Context, address string, templateID string, metadata map[string]string) error {
	return c.post(ctx, "/emails", map[string]any{
		"template_id": templateID,
		"recipients":  []string{address},
		"metadata":    metadata,
	})
}

func (c *NotifierClient) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
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
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notifier %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
