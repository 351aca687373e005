package domain_test

import (
	"testing"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

func TestSubjectTail(t *testing.T) {
	cases := []struct {
		subject string
		want    string
	}{
		{"/groups/New Relic SSO/members/objectIds/abc123", "abc123"},
		{"abc123", "abc123"},
		{"/trailing/", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := domain.SubjectTail(tc.subject); got != tc.want {
			t.Errorf("SubjectTail(%q) = %q, want %q", tc.subject, got, tc.want)
		}
	}
}

func TestConcernsGroup(t *testing.T) {
	cases := []struct {
		name  string
		ev    domain.MembershipEvent
		group string
		want  bool
	}{
		{
			name:  "explicit groupName matches",
			ev:    domain.MembershipEvent{GroupName: "New Relic SSO"},
			group: "New Relic SSO",
			want:  true,
		},
		{
			name:  "explicit groupName mismatch wins over subject",
			ev:    domain.MembershipEvent{GroupName: "Other Group", Subject: "/groups/New Relic SSO/members/u1"},
			group: "New Relic SSO",
			want:  false,
		},
		{
			name:  "group embedded in subject, no groupName",
			ev:    domain.MembershipEvent{Subject: "/groups/New Relic SSO/members/u1"},
			group: "New Relic SSO",
			want:  true,
		},
		{
			name:  "unrelated event",
			ev:    domain.MembershipEvent{Subject: "/groups/Finance/members/u1"},
			group: "New Relic SSO",
			want:  false,
		},
		{
			name:  "empty configured group never matches",
			ev:    domain.MembershipEvent{GroupName: ""},
			group: "",
			want:  false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ev.ConcernsGroup(tc.group); got != tc.want {
				t.Fatalf("ConcernsGroup(%q) = %v, want %v", tc.group, got, tc.want)
			}
		})
	}
}
