package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService builds session views over the append-only session
// log. Sessions are not stored anywhere; they are derived from the
// turns on every call.
type SessionService struct {
	log driven.SessionLog
}

// NewSessionService creates a session service.
func NewSessionService(log driven.SessionLog) *SessionService {
	return &SessionService{log: log}
}

// NewSession mints an ID for a new named conversation. Nothing is
// written until the first turn is logged.
func (s *SessionService) NewSession(_ string) string {
	return uuid.New().String()
}

// ListSessions aggregates the log into sessions. Turns without a
// session ID are grouped under the "legacy" session. Sessions are
// ordered most recently active first; ties break on session ID so the
// order is stable across calls.
func (s *SessionService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	turns, err := s.log.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading session log: %w", err)
	}

	byID := make(map[string]*domain.Session)
	for _, turn := range turns {
		id := turn.NormalisedSessionID()
		session, ok := byID[id]
		if !ok {
			session = &domain.Session{ID: id}
			byID[id] = session
		}
		session.TurnCount++
		if turn.SessionName != "" {
			session.Name = turn.SessionName
		}
		if turn.Timestamp.After(session.LastTimestamp) {
			session.LastTimestamp = turn.Timestamp
		}
	}

	sessions := make([]domain.Session, 0, len(byID))
	for _, session := range byID {
		sessions = append(sessions, *session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].LastTimestamp.Equal(sessions[j].LastTimestamp) {
			return sessions[i].LastTimestamp.After(sessions[j].LastTimestamp)
		}
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

// Turns returns the turns of one session in log order. The "legacy"
// ID selects turns that were logged without a session.
func (s *SessionService) Turns(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}

	turns, err := s.log.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading session log: %w", err)
	}

	var out []domain.ConversationTurn
	for _, turn := range turns {
		if turn.NormalisedSessionID() == sessionID {
			out = append(out, turn)
		}
	}
	return out, nil
}
