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

// GraphClient performs single-entity user lookups against Microsoft Graph.
type GraphClient struct {
	graphBase  string // e.g. "https://graph.microsoft.com"
	httpClient *http.Client
}

// NewGraphClient creates a GraphClient from the Azure configuration.
func NewGraphClient(cfg config.AzureConfig) *GraphClient {
	return &GraphClient{
		graphBase:  strings.TrimSuffix(cfg.GraphBase, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// graphUser is the slice of the directory record we care about. Mail is a
// pointer because the directory genuinely distinguishes "no mail attribute"
// from an empty string.
type graphUser struct {
	ID   string  `json:"id"`
	Mail *string `json:"mail"`
}

// ResolveEmail looks up the principal's canonical contact address. Success
// requires a 200 and a non-null mail field; anything else is a resolution
// failure carrying the raw response for triage.
func (c *GraphClient) ResolveEmail(ctx context.Context, subjectID string, token domain.AccessToken) (string, error) {
	lookupURL := fmt.Sprintf("%s/v1.0/users/%s", c.graphBase, url.PathEscape(subjectID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.PipelineError{
			Outcome: domain.OutcomeResolutionFailure,
			Detail:  fmt.Sprintf("graph users/%s lookup failed", subjectID),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", domain.Failf(domain.OutcomeResolutionFailure,
			"graph users/%s: status %d: %s", subjectID, resp.StatusCode, string(body))
	}

	var user graphUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", &domain.PipelineError{
			Outcome: domain.OutcomeResolutionFailure,
			Detail:  fmt.Sprintf("decode graph users/%s response", subjectID),
			Err:     err,
		}
	}
	if user.Mail == nil || *user.Mail == "" {
		return "", domain.Failf(domain.OutcomeResolutionFailure,
			"directory record %s has no mail address", subjectID)
	}
	return *user.Mail, nil
}
