// Package azuread talks to the source directory: token acquisition against
// the tenant authority and user lookups against the Microsoft Graph API.
package azuread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/platform-ops/nr-user-mgmt/internal/config"
	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

// graphScope is the only scope this service ever requests.
const graphScope = "https://graph.microsoft.com/.default"

// TokenClient acquires short-lived graph tokens via the client-credentials
// grant. Tokens are never cached: each pipeline run is independent.
type TokenClient struct {
	authorityBase string // e.g. "https://login.microsoftonline.com"
	tenantID      string
	clientID      string
	clientSecret  string

	httpClient *http.Client
}

// NewTokenClient creates a TokenClient from the Azure configuration.
func NewTokenClient(cfg config.AzureConfig) *TokenClient {
	return &TokenClient{
		authorityBase: strings.TrimSuffix(cfg.AuthorityBase, "/"),
		tenantID:      cfg.TenantID,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Acquire fetches one bearer token for the directory graph API. Any failure
// is terminal for the invocation; there is no retry here.
func (c *TokenClient) Acquire(ctx context.Context) (domain.AccessToken, error) {
	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.authorityBase, c.tenantID)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {graphScope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.AccessToken{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AccessToken{}, &domain.PipelineError{
			Outcome: domain.OutcomeAuthFailure,
			Detail:  "token request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.AccessToken{}, domain.Failf(domain.OutcomeAuthFailure,
			"authority rejected token request: status %d: %s", resp.StatusCode, string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return domain.AccessToken{}, &domain.PipelineError{
			Outcome: domain.OutcomeAuthFailure,
			Detail:  "decode token response",
			Err:     err,
		}
	}
	if tok.AccessToken == "" {
		return domain.AccessToken{}, domain.Fail(domain.OutcomeAuthFailure, "authority returned empty access_token")
	}
	return domain.AccessToken{Value: tok.AccessToken}, nil
}
