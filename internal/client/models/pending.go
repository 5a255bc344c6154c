package models

import "time"

// PendingState tracks a locally queued message through its send lifecycle.
type PendingState string

const (
	PendingStatePending   PendingState = "pending"
	PendingStateConfirmed PendingState = "confirmed"
	PendingStateFailed    PendingState = "failed"
)

// PendingMessage is a user turn that was sent optimistically and has not yet
// been replaced by its server-issued counterpart. CorrelationID is generated
// locally and echoed back by the server as the message clientId.
type PendingMessage struct {
	CorrelationID  string
	ConversationID string
	Content        string
	State          PendingState
	Error          *string
	CreatedAt      time.Time
}
