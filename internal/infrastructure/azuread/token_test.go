package azuread_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/platform-ops/nr-user-mgmt/internal/config"
	"github.com/platform-ops/nr-user-mgmt/internal/domain"
	"github.com/platform-ops/nr-user-mgmt/internal/infrastructure/azuread"
)

func newTokenClient(serverURL string) *azuread.TokenClient {
	return azuread.NewTokenClient(config.AzureConfig{
		AuthorityBase: serverURL,
		TenantID:      "tenant-1",
		ClientID:      "client-1",
		ClientSecret:  "secret",
	})
}

func TestAcquire_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tenant-1/oauth2/v2.0/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type %q", r.PostForm.Get("grant_type"))
		}
		if got := r.PostForm.Get("scope"); got != "https://graph.microsoft.com/.default" {
			t.Errorf("unexpected scope %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-abc","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	tok, err := newTokenClient(srv.URL).Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if tok.Value != "tok-abc" {
		t.Fatalf("unexpected token %q", tok.Value)
	}
}

func TestAcquire_RejectionIsAuthFailureWithUpstreamBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client","error_description":"AADSTS7000215"}`))
	}))
	defer srv.Close()

	_, err := newTokenClient(srv.URL).Acquire(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.OutcomeOf(err) != domain.OutcomeAuthFailure {
		t.Fatalf("expected AUTH_FAILURE, got %s", domain.OutcomeOf(err))
	}
	if !strings.Contains(err.Error(), "AADSTS7000215") {
		t.Fatalf("expected upstream description preserved, got %q", err.Error())
	}
}

func TestAcquire_EmptyTokenIsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	_, err := newTokenClient(srv.URL).Acquire(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.OutcomeOf(err) != domain.OutcomeAuthFailure {
		t.Fatalf("expected AUTH_FAILURE, got %s", domain.OutcomeOf(err))
	}
}

func TestAcquire_NetworkErrorIsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTokenClient(srv.URL).Acquire(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.OutcomeOf(err) != domain.OutcomeAuthFailure {
		t.Fatalf("expected AUTH_FAILURE, got %s", domain.OutcomeOf(err))
	}
}
