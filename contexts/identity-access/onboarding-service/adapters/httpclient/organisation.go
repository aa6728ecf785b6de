package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"caravan/contexts/identity-access/onboarding-service/ports"
)

// OrganisationClient provisions organisations in the external organisation
// service on behalf of a freshly logged-in user.
type OrganisationClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewOrganisationClient(baseURL string) *OrganisationClient {
	return &OrganisationClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *OrganisationClient) Create(ctx context.Context, input ports.CreateOrganisationInput, userToken string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"long_name":     input.LongName,
		"short_name":    input.ShortName,
		"legal_form":    input.LegalForm,
		"description":   input.Description,
		"owner_contact": input.OwnerContact,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/organisations", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", upstreamError(resp)
	}

	var out struct {
		OrganisationID string `json:"organisation_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.OrganisationID, nil
}
