package domain

import (
	"encoding/json"
	"strings"
)

// Operation is the normalized membership-change operation.
type Operation string

const (
	OpAddMember    Operation = "AddMember"
	OpRemoveMember Operation = "RemoveMember"
	OpUnknown      Operation = "Unknown"
)

// MembershipEvent is the normalized form of one directory membership-change
// event. It is constructed once per invocation and discarded at the end.
type MembershipEvent struct {
	// ID is the event source's delivery id, kept for log correlation.
	ID string
	// Operation is the normalized membership operation.
	Operation Operation
	// Subject is the raw slash-delimited subject path from the event.
	Subject string
	// SubjectID is the trailing segment of Subject: the directory principal
	// the event is about.
	SubjectID string
	// GroupName is the security group the membership changed on, when the
	// payload carries one. Older deliveries embed the group in Subject
	// instead; ConcernsGroup checks both.
	GroupName string
	// Raw is the untouched data payload, preserved for diagnostics.
	Raw json.RawMessage
}

// ConcernsGroup reports whether the event is about the named security group,
// accepting both payload conventions: an explicit groupName field or the
// group embedded in the subject path.
func (e MembershipEvent) ConcernsGroup(group string) bool {
	if group == "" {
		return false
	}
	if e.GroupName == group {
		return true
	}
	return e.GroupName == "" && strings.Contains(e.Subject, group)
}

// SubjectTail returns the trailing path segment of a subject string.
func SubjectTail(subject string) string {
	if idx := strings.LastIndex(subject, "/"); idx >= 0 {
		return subject[idx+1:]
	}
	return subject
}
