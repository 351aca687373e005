// Package event parses Azure Event Grid webhook deliveries into normalized
// membership events and routes them through an operation-keyed registry.
package event

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

// TypeSubscriptionValidation is the handshake event Event Grid sends when a
// webhook subscription is created. It must be answered with the validation
// code, not run through the pipeline.
const TypeSubscriptionValidation = "Microsoft.EventGrid.SubscriptionValidationEvent"

// ErrNotMembership marks envelopes whose payload carries neither membership
// convention.
var ErrNotMembership = errors.New("event is not a membership change")

// Envelope is one entry of an Event Grid delivery. Deliveries are batched,
// so the webhook body is an array of these.
type Envelope struct {
	ID        string          `json:"id"`
	EventType string          `json:"eventType"`
	Subject   string          `json:"subject"`
	Data      json.RawMessage `json:"data"`
}

// ParseBatch decodes a webhook body into envelopes.
func ParseBatch(body []byte) ([]Envelope, error) {
	var batch []Envelope
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// ValidationCode returns the subscription validation code when the envelope
// is a validation handshake.
func (e Envelope) ValidationCode() (string, bool) {
	if e.EventType != TypeSubscriptionValidation {
		return "", false
	}
	var data struct {
		ValidationCode string `json:"validationCode"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return "", false
	}
	return data.ValidationCode, data.ValidationCode != ""
}

// membershipData covers both payload conventions the directory has emitted
// over time: operationType inside data, or the operation encoded in the
// envelope's eventType.
type membershipData struct {
	OperationType string `json:"operationType"`
	GroupName     string `json:"groupName"`
}

// ParseMembership normalizes an envelope into a MembershipEvent.
// The operation is taken from the envelope eventType when it carries a
// UserAddedToGroup/UserRemovedFromGroup marker, otherwise from
// data.operationType. Envelopes with neither are rejected.
func ParseMembership(env Envelope) (*domain.MembershipEvent, error) {
	var data membershipData
	if len(env.Data) > 0 {
		// A malformed data block is tolerated; the envelope fields may
		// still identify the operation.
		_ = json.Unmarshal(env.Data, &data)
	}

	op := domain.OpUnknown
	switch {
	case strings.Contains(env.EventType, "UserRemovedFromGroup"):
		op = domain.OpRemoveMember
	case strings.Contains(env.EventType, "UserAddedToGroup"):
		op = domain.OpAddMember
	case data.OperationType == string(domain.OpRemoveMember):
		op = domain.OpRemoveMember
	case data.OperationType == string(domain.OpAddMember):
		op = domain.OpAddMember
	case data.OperationType != "":
		op = domain.OpUnknown
	default:
		return nil, ErrNotMembership
	}

	return &domain.MembershipEvent{
		ID:        env.ID,
		Operation: op,
		Subject:   env.Subject,
		SubjectID: domain.SubjectTail(env.Subject),
		GroupName: data.GroupName,
		Raw:       env.Data,
	}, nil
}
