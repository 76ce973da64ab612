package audit

import "time"

// Action names the lifecycle events worth an audit line.
type Action string

const (
	ActionApplicationSubmitted Action = "application_submitted"
	ActionApplicationApproved  Action = "application_approved"
	ActionApplicationRejected  Action = "application_rejected"
	ActionCredentialIssued     Action = "credential_issued"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	// UID is the applicant the event concerns.
	UID string `json:"uid"`
	// ActorUID is who performed the action when different from UID
	// (review decisions record the superuser here).
	ActorUID  string `json:"actor_uid,omitempty"`
	Action    Action `json:"action"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
