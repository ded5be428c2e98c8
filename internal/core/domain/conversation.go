package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles. Legacy logs may contain "ai" or "bot" which are
// normalised to RoleAssistant on read.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// LegacySessionID is the synthetic session id assigned to turns written
// before sessions existed (records without a chat_id).
const LegacySessionID = "legacy"

// ConversationTurn is one message in the append-only session log.
// Turns are written exactly once and never mutated or deleted.
type ConversationTurn struct {
	// Timestamp is the UTC wall-clock time the turn was recorded.
	Timestamp time.Time

	// Role is who authored the turn.
	Role Role

	// Content is the message text.
	Content string

	// RequestID pairs a user turn with its resulting assistant turn.
	// Optional; not enforced as a foreign key.
	RequestID string

	// SessionID scopes the turn to a chat session. Empty means legacy.
	SessionID string

	// SessionName is the display name of the session at write time.
	SessionName string
}

// NormalisedSessionID returns the turn's session id, substituting
// LegacySessionID when none was recorded.
func (t ConversationTurn) NormalisedSessionID() string {
	if t.SessionID == "" {
		return LegacySessionID
	}
	return t.SessionID
}

// Session is a read-time aggregate over turns sharing a session id.
// It is recomputed from the log on each read and never stored.
type Session struct {
	// ID is the session id, or LegacySessionID.
	ID string

	// Name is the most recently seen non-empty session name.
	Name string

	// TurnCount is the number of user/assistant turns in the session.
	TurnCount int

	// LastTimestamp is the timestamp of the most recent turn.
	LastTimestamp time.Time
}
