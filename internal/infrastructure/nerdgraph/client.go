// Package nerdgraph is the downstream platform client: it resolves a contact
// address to the platform's user id and issues the deletion mutation.
// Requests are structured GraphQL operations with variables; user input is
// never spliced into a query string.
package nerdgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/platform-ops/nr-user-mgmt/internal/config"
	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

const userSearchQuery = `
query($email: String!) {
  actor {
    user {
      userSearch(query: {scope: {email: $email}}) {
        users {
          id
          email
        }
      }
    }
  }
}`

const deleteUserMutation = `
mutation($id: ID!) {
  userManagementDeleteUser(deleteUserOptions: {id: $id}) {
    deletedUser {
      id
    }
    success
  }
}`

// Client talks to the NerdGraph endpoint with a static API key. This is a
// separate trust domain from the directory: the graph token never goes here.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// New creates a NerdGraph Client from the New Relic configuration.
func New(cfg config.NewRelicConfig) *Client {
	return &Client{
		endpoint:   cfg.GraphEndpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// ResolveUserID finds the platform user id for an email. Zero matches is
// NotFound, a distinct terminal outcome from a query error: the account may
// simply already be gone. Multiple matches take the first entry, always.
func (c *Client) ResolveUserID(ctx context.Context, email string) (string, error) {
	var payload struct {
		Actor struct {
			User struct {
				UserSearch struct {
					Users []struct {
						ID    string `json:"id"`
						Email string `json:"email"`
					} `json:"users"`
				} `json:"userSearch"`
			} `json:"user"`
		} `json:"actor"`
	}

	errs, err := c.do(ctx, request{
		Query:     userSearchQuery,
		Variables: map[string]any{"email": email},
	}, &payload)
	if err != nil {
		return "", &domain.PipelineError{Outcome: domain.OutcomeQueryError, Detail: "user search request failed", Err: err}
	}
	if len(errs) > 0 {
		log.Error().Str("email", email).Strs("errors", errorMessages(errs)).Msg("nerdgraph user search returned errors")
		return "", domain.Failf(domain.OutcomeQueryError, "user search: %s", joinErrors(errs))
	}

	users := payload.Actor.User.UserSearch.Users
	if len(users) == 0 {
		return "", domain.Failf(domain.OutcomeNotFound, "no platform user matches %s", email)
	}
	return users[0].ID, nil
}

// deleteConfirmation covers both conventions the deletion mutation has used:
// an echoed deleted-user id in newer responses, an explicit success flag in
// older ones. Either signal confirms the deletion.
type deleteConfirmation struct {
	DeletedUser *struct {
		ID string `json:"id"`
	} `json:"deletedUser"`
	Success *bool `json:"success"`
}

func (d deleteConfirmation) confirmed() bool {
	if d.DeletedUser != nil && d.DeletedUser.ID != "" {
		return true
	}
	return d.Success != nil && *d.Success
}

// DeleteUser issues the deletion mutation. One attempt only: redelivery of
// the source event is the retry mechanism, not this client.
func (c *Client) DeleteUser(ctx context.Context, platformUserID string) error {
	var payload struct {
		Result deleteConfirmation `json:"userManagementDeleteUser"`
	}

	errs, err := c.do(ctx, request{
		Query:     deleteUserMutation,
		Variables: map[string]any{"id": platformUserID},
	}, &payload)
	if err != nil {
		return &domain.PipelineError{Outcome: domain.OutcomeExecutionFailure, Detail: "delete request failed", Err: err}
	}
	if len(errs) > 0 {
		log.Error().Str("platform_user_id", platformUserID).Strs("errors", errorMessages(errs)).Msg("nerdgraph delete returned errors")
		return domain.Failf(domain.OutcomeExecutionFailure, "delete user %s: %s", platformUserID, joinErrors(errs))
	}
	if !payload.Result.confirmed() {
		return domain.Failf(domain.OutcomeExecutionFailure,
			"delete user %s: response confirms neither a deleted id nor success", platformUserID)
	}
	return nil
}

// do posts one GraphQL request and decodes the data payload into out.
// The top-level errors list is returned for the caller to classify.
func (c *Client) do(ctx context.Context, reqBody request, out any) ([]graphQLError, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors, nil
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func errorMessages(errs []graphQLError) []string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func joinErrors(errs []graphQLError) string {
	return strings.Join(errorMessages(errs), "; ")
}
