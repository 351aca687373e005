package domain

import (
	"errors"
	"fmt"
)

// Outcome classifies the terminal state of one deprovisioning run.
type Outcome string

const (
	// OutcomeSuccess means the downstream platform confirmed the deletion.
	OutcomeSuccess Outcome = "SUCCESS"
	// OutcomeSkipped means the event did not qualify for deprovisioning
	// (wrong group, an addition, or an operation nobody handles).
	OutcomeSkipped Outcome = "SKIPPED"
	// OutcomeNotFound means the email resolved cleanly but no downstream
	// account matched it. Distinct from a query error: the usual cause is
	// an account that was already removed.
	OutcomeNotFound Outcome = "NOT_FOUND"
	// OutcomeAuthFailure means the directory token could not be acquired.
	OutcomeAuthFailure Outcome = "AUTH_FAILURE"
	// OutcomeResolutionFailure means the directory lookup returned a
	// non-success status or a record without a mail address.
	OutcomeResolutionFailure Outcome = "RESOLUTION_FAILURE"
	// OutcomeQueryError means the downstream identity query itself failed.
	OutcomeQueryError Outcome = "QUERY_ERROR"
	// OutcomeExecutionFailure means the downstream deletion was rejected or
	// the response confirmed nothing.
	OutcomeExecutionFailure Outcome = "EXECUTION_FAILURE"
)

// AccessToken is a short-lived bearer credential for the directory graph API.
// It lives for exactly one pipeline run and is never persisted.
type AccessToken struct {
	Value string
}

// Identity is built incrementally across the resolver stages. A stage only
// ever reads the fields filled in by the stages before it.
type Identity struct {
	SubjectID      string
	Email          string
	PlatformUserID string
}

// DeprovisionResult is the terminal, single-use result of a pipeline run.
type DeprovisionResult struct {
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail"`
}

// PipelineError carries the outcome class of a failed stage together with
// the upstream diagnostic, so callers can map class to behavior without
// string matching.
type PipelineError struct {
	Outcome Outcome
	Detail  string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Outcome, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Outcome, e.Detail)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Fail builds a PipelineError for the given outcome class.
func Fail(outcome Outcome, detail string) *PipelineError {
	return &PipelineError{Outcome: outcome, Detail: detail}
}

// Failf is Fail with formatting.
func Failf(outcome Outcome, format string, args ...any) *PipelineError {
	return &PipelineError{Outcome: outcome, Detail: fmt.Sprintf(format, args...)}
}

// OutcomeOf extracts the outcome class from err. Errors that did not come
// out of a pipeline stage are treated as execution failures.
func OutcomeOf(err error) Outcome {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Outcome
	}
	return OutcomeExecutionFailure
}

// ResultOf renders err as a terminal DeprovisionResult.
func ResultOf(err error) DeprovisionResult {
	return DeprovisionResult{Outcome: OutcomeOf(err), Detail: err.Error()}
}
