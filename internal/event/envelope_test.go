package event_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
	"github.com/platform-ops/nr-user-mgmt/internal/event"
)

func TestParseBatch(t *testing.T) {
	body := []byte(`[{"id":"e1","eventType":"Microsoft.Graph.GroupUpdated","subject":"/g/u1","data":{"operationType":"RemoveMember"}}]`)
	batch, err := event.ParseBatch(body)
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	if len(batch) != 1 || batch[0].ID != "e1" {
		t.Fatalf("unexpected batch: %+v", batch)
	}
}

func TestParseBatch_InvalidJSON(t *testing.T) {
	if _, err := event.ParseBatch([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValidationCode(t *testing.T) {
	env := event.Envelope{
		EventType: event.TypeSubscriptionValidation,
		Data:      json.RawMessage(`{"validationCode":"code-123"}`),
	}
	code, ok := env.ValidationCode()
	if !ok || code != "code-123" {
		t.Fatalf("expected validation code, got %q ok=%v", code, ok)
	}

	other := event.Envelope{EventType: "Microsoft.Graph.GroupUpdated"}
	if _, ok := other.ValidationCode(); ok {
		t.Fatal("non-handshake event must not report a validation code")
	}
}

func TestParseMembership_OperationTypeConvention(t *testing.T) {
	env := event.Envelope{
		ID:        "e1",
		EventType: "Microsoft.Graph.GroupUpdated",
		Subject:   "/groups/New Relic SSO/members/objectIds/abc123",
		Data:      json.RawMessage(`{"operationType":"RemoveMember"}`),
	}
	ev, err := event.ParseMembership(env)
	if err != nil {
		t.Fatalf("ParseMembership: %v", err)
	}
	if ev.Operation != domain.OpRemoveMember {
		t.Fatalf("expected RemoveMember, got %s", ev.Operation)
	}
	if ev.SubjectID != "abc123" {
		t.Fatalf("expected subject id abc123, got %q", ev.SubjectID)
	}
}

func TestParseMembership_EventTypeConvention(t *testing.T) {
	env := event.Envelope{
		ID:        "e2",
		EventType: "Custom.Directory.UserRemovedFromGroup",
		Subject:   "/groups/g1/members/u42",
		Data:      json.RawMessage(`{"groupName":"NrSSO"}`),
	}
	ev, err := event.ParseMembership(env)
	if err != nil {
		t.Fatalf("ParseMembership: %v", err)
	}
	if ev.Operation != domain.OpRemoveMember {
		t.Fatalf("expected RemoveMember, got %s", ev.Operation)
	}
	if ev.GroupName != "NrSSO" {
		t.Fatalf("expected group NrSSO, got %q", ev.GroupName)
	}
}

func TestParseMembership_BothConventionsNormalizeEqually(t *testing.T) {
	byEventType := event.Envelope{
		EventType: "Custom.Directory.UserAddedToGroup",
		Subject:   "/groups/g/members/u1",
		Data:      json.RawMessage(`{"groupName":"NrSSO"}`),
	}
	byOperation := event.Envelope{
		EventType: "Microsoft.Graph.GroupUpdated",
		Subject:   "/groups/g/members/u1",
		Data:      json.RawMessage(`{"operationType":"AddMember","groupName":"NrSSO"}`),
	}

	a, err := event.ParseMembership(byEventType)
	if err != nil {
		t.Fatalf("eventType convention: %v", err)
	}
	b, err := event.ParseMembership(byOperation)
	if err != nil {
		t.Fatalf("operationType convention: %v", err)
	}
	if a.Operation != b.Operation || a.SubjectID != b.SubjectID || a.GroupName != b.GroupName {
		t.Fatalf("conventions diverged: %+v vs %+v", a, b)
	}
}

func TestParseMembership_UnknownOperation(t *testing.T) {
	env := event.Envelope{
		EventType: "Microsoft.Graph.GroupUpdated",
		Subject:   "/groups/g/members/u1",
		Data:      json.RawMessage(`{"operationType":"RenameGroup"}`),
	}
	ev, err := event.ParseMembership(env)
	if err != nil {
		t.Fatalf("ParseMembership: %v", err)
	}
	if ev.Operation != domain.OpUnknown {
		t.Fatalf("expected Unknown, got %s", ev.Operation)
	}
}

func TestParseMembership_NotMembership(t *testing.T) {
	env := event.Envelope{
		EventType: "Microsoft.Storage.BlobCreated",
		Subject:   "/containers/x/blobs/y",
		Data:      json.RawMessage(`{"url":"https://example"}`),
	}
	if _, err := event.ParseMembership(env); !errors.Is(err, event.ErrNotMembership) {
		t.Fatalf("expected ErrNotMembership, got %v", err)
	}
}
