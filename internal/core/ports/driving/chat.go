package driving

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// AskResult is the outcome of one agent exchange.
type AskResult struct {
	// Answer is the assistant's reply text. On failure it carries an
	// apologetic error answer rather than being empty.
	Answer string

	// RequestID correlates the user and assistant turns in the
	// session log.
	RequestID string

	// ToolIterations is how many tool rounds the agent ran.
	ToolIterations int

	// Err is the underlying failure, if any. The Answer is still
	// usable for display when Err is set.
	Err error
}

// ChatService answers questions over the indexed corpus.
type ChatService interface {
	// Ask runs one agent exchange in the given session. An empty
	// sessionID logs the turns without a session (legacy records).
	Ask(ctx context.Context, sessionID, sessionName, question string) *AskResult
}

// SessionService manages conversation sessions built from the log.
type SessionService interface {
	// NewSession mints a session ID for a named conversation.
	NewSession(name string) string

	// ListSessions aggregates the log into sessions, most recently
	// active first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// Turns returns the turns belonging to one session in log order.
	Turns(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error)
}
