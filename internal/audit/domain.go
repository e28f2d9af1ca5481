// Package audit persists authentication events for after-the-fact review.
// Events are produced on the hot path but recorded asynchronously through
// the job queue, so a slow audit write never delays a login.
package audit

import "time"

// Actions recorded in the audit trail.
const (
	ActionLogin    = "login"
	ActionRefresh  = "refresh"
	ActionValidate = "validate"
	ActionLogout   = "logout"
)

// Outcomes recorded per action. UserInactive is kept distinct from plain
// credential failure so deactivated-account probes stand out in review.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUserInactive       = "user_inactive"
	OutcomeTokenRejected      = "token_rejected"
	OutcomeError              = "error"
)

// Event is a single authentication event. Detail must never contain
// credential material; producers scrub before recording.
type Event struct {
	UserID   int64     `json:"userId,omitempty"`
	Username string    `json:"username,omitempty"`
	Action   string    `json:"action"`
	Outcome  string    `json:"outcome"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}
