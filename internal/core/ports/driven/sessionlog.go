package driven

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// SessionLog persists conversation turns durably, in arrival order.
//
// Append must not return until the turn has been flushed to stable
// storage: a turn that was acknowledged survives a process crash.
type SessionLog interface {
	// Append writes one turn to the end of the log.
	Append(ctx context.Context, turn domain.ConversationTurn) error

	// ReadAll returns every turn in the log in append order.
	// Unreadable records are skipped, not fatal.
	ReadAll(ctx context.Context) ([]domain.ConversationTurn, error)
}
