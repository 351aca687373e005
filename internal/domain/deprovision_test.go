package domain_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

func TestOutcomeOf_PipelineError(t *testing.T) {
	err := domain.Fail(domain.OutcomeNotFound, "no match")
	if got := domain.OutcomeOf(err); got != domain.OutcomeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", got)
	}
}

func TestOutcomeOf_WrappedPipelineError(t *testing.T) {
	err := fmt.Errorf("stage failed: %w", domain.Fail(domain.OutcomeAuthFailure, "rejected"))
	if got := domain.OutcomeOf(err); got != domain.OutcomeAuthFailure {
		t.Fatalf("expected AUTH_FAILURE, got %s", got)
	}
}

func TestOutcomeOf_PlainError_DefaultsToExecutionFailure(t *testing.T) {
	if got := domain.OutcomeOf(errors.New("boom")); got != domain.OutcomeExecutionFailure {
		t.Fatalf("expected EXECUTION_FAILURE, got %s", got)
	}
}

func TestPipelineError_PreservesUpstreamDiagnostic(t *testing.T) {
	upstream := errors.New("connection refused")
	err := &domain.PipelineError{Outcome: domain.OutcomeQueryError, Detail: "user search", Err: upstream}

	if !errors.Is(err, upstream) {
		t.Fatal("expected upstream error to survive unwrapping")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected diagnostic in message, got %q", err.Error())
	}
}

func TestResultOf(t *testing.T) {
	res := domain.ResultOf(domain.Failf(domain.OutcomeResolutionFailure, "graph users/%s: status 404", "abc"))
	if res.Outcome != domain.OutcomeResolutionFailure {
		t.Fatalf("unexpected outcome %s", res.Outcome)
	}
	if !strings.Contains(res.Detail, "status 404") {
		t.Fatalf("expected raw diagnostic in detail, got %q", res.Detail)
	}
}
