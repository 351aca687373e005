package event

import (
	"github.com/platform-ops/nr-user-mgmt/internal/domain"
	"github.com/platform-ops/nr-user-mgmt/internal/messages"
)

func init() {
	Register(domain.OpRemoveMember, handleRemoveMember)
	Register(domain.OpAddMember, handleAddMember)
	Register(domain.OpUnknown, handleUnknown)
}

// handleRemoveMember is the only operation that mutates anything downstream.
func handleRemoveMember(_ domain.MembershipEvent) *Action {
	return &Action{Kind: ActionDeprovision}
}

// handleAddMember is informational. Access grants are handled by the SSO
// integration itself, not by this service.
func handleAddMember(ev domain.MembershipEvent) *Action {
	return &Action{Kind: ActionNote, Note: messages.MemberAdded(ev.SubjectID, ev.GroupName)}
}

func handleUnknown(ev domain.MembershipEvent) *Action {
	return &Action{Kind: ActionNote, Note: messages.UnhandledOperation(string(ev.Operation))}
}
