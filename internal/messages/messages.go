// Package messages holds the human-readable detail strings surfaced in
// deprovisioning results and webhook responses.
package messages

import "fmt"

const (
	deprovisionedBody      = "deprovisioned %s (platform user %s) after removal from group"
	memberAddedBody        = "%s was added to group %q, no action taken"
	unhandledOperationBody = "unhandled membership operation %q, no action taken"
	wrongGroupBody         = "event does not concern group %q, ignoring"
	userNotFoundBody       = "no downstream account matches %s, nothing to deprovision"
)

// ─── Pipeline outcomes ───────────────────────────────────────────────────────

func Deprovisioned(email, platformUserID string) string {
	return fmt.Sprintf(deprovisionedBody, email, platformUserID)
}

func UserNotFound(email string) string {
	return fmt.Sprintf(userNotFoundBody, email)
}

// ─── Informational skips ─────────────────────────────────────────────────────

func MemberAdded(subjectID, group string) string {
	return fmt.Sprintf(memberAddedBody, subjectID, group)
}

func UnhandledOperation(op string) string {
	return fmt.Sprintf(unhandledOperationBody, op)
}

func WrongGroup(group string) string {
	return fmt.Sprintf(wrongGroupBody, group)
}
