package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

func ts(min int) time.Time {
	return time.Date(2025, 3, 1, 10, min, 0, 0, time.UTC)
}

func TestNewSession(t *testing.T) {
	svc := NewSessionService(&mockSessionLog{})

	a := svc.NewSession("alpha")
	b := svc.NewSession("alpha")
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b, "every session gets a fresh id")
}

func TestListSessions(t *testing.T) {
	log := &mockSessionLog{turns: []domain.ConversationTurn{
		{Timestamp: ts(0), Role: domain.RoleUser, Content: "q1", SessionID: "s1", SessionName: "first"},
		{Timestamp: ts(1), Role: domain.RoleAssistant, Content: "a1", SessionID: "s1", SessionName: "first"},
		{Timestamp: ts(5), Role: domain.RoleUser, Content: "q2", SessionID: "s2", SessionName: "second"},
		{Timestamp: ts(2), Role: domain.RoleUser, Content: "old question"},
	}}
	svc := NewSessionService(log)

	sessions, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	// Most recently active first.
	assert.Equal(t, "s2", sessions[0].ID)
	assert.Equal(t, "second", sessions[0].Name)
	assert.Equal(t, 1, sessions[0].TurnCount)

	// Turns without a session id end up in the legacy session.
	assert.Equal(t, domain.LegacySessionID, sessions[1].ID)
	assert.Equal(t, 1, sessions[1].TurnCount)

	assert.Equal(t, "s1", sessions[2].ID)
	assert.Equal(t, 2, sessions[2].TurnCount)
	assert.True(t, sessions[2].LastTimestamp.Equal(ts(1)))
}

func TestListSessions_TieBreaksOnID(t *testing.T) {
	log := &mockSessionLog{turns: []domain.ConversationTurn{
		{Timestamp: ts(3), Role: domain.RoleUser, Content: "q", SessionID: "zulu"},
		{Timestamp: ts(3), Role: domain.RoleUser, Content: "q", SessionID: "alpha"},
	}}
	svc := NewSessionService(log)

	sessions, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "alpha", sessions[0].ID)
	assert.Equal(t, "zulu", sessions[1].ID)
}

func TestListSessions_NameFromLatestNamedTurn(t *testing.T) {
	log := &mockSessionLog{turns: []domain.ConversationTurn{
		{Timestamp: ts(0), Role: domain.RoleUser, Content: "q", SessionID: "s1", SessionName: "draft"},
		{Timestamp: ts(1), Role: domain.RoleUser, Content: "q", SessionID: "s1", SessionName: "renamed"},
		{Timestamp: ts(2), Role: domain.RoleUser, Content: "q", SessionID: "s1"},
	}}
	svc := NewSessionService(log)

	sessions, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "renamed", sessions[0].Name)
}

func TestListSessions_EmptyLog(t *testing.T) {
	svc := NewSessionService(&mockSessionLog{})

	sessions, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestListSessions_ReadFailure(t *testing.T) {
	svc := NewSessionService(&mockSessionLog{readErr: errors.New("corrupt log")})

	_, err := svc.ListSessions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading session log")
}

func TestTurns(t *testing.T) {
	log := &mockSessionLog{turns: []domain.ConversationTurn{
		{Timestamp: ts(0), Role: domain.RoleUser, Content: "q1", SessionID: "s1"},
		{Timestamp: ts(1), Role: domain.RoleUser, Content: "legacy question"},
		{Timestamp: ts(2), Role: domain.RoleAssistant, Content: "a1", SessionID: "s1"},
	}}
	svc := NewSessionService(log)

	turns, err := svc.Turns(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "q1", turns[0].Content)
	assert.Equal(t, "a1", turns[1].Content)
}

func TestTurns_LegacySession(t *testing.T) {
	log := &mockSessionLog{turns: []domain.ConversationTurn{
		{Timestamp: ts(0), Role: domain.RoleUser, Content: "old", SessionID: ""},
		{Timestamp: ts(1), Role: domain.RoleUser, Content: "new", SessionID: "s1"},
	}}
	svc := NewSessionService(log)

	turns, err := svc.Turns(context.Background(), domain.LegacySessionID)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "old", turns[0].Content)
}

func TestTurns_EmptyID(t *testing.T) {
	svc := NewSessionService(&mockSessionLog{})

	_, err := svc.Turns(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
