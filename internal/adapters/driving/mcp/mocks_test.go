package mcp

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks []domain.RetrievedChunk
	err    error
	gotK   int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.gotK = k
	return m.chunks, m.err
}

func (m *mockRetrievalService) RetrieveSerialized(_ context.Context, _ string, k int) (string, error) {
	m.gotK = k
	return "", m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result      *driving.AskResult
	gotQuestion string
	gotSession  string
}

func (m *mockChatService) Ask(_ context.Context, sessionID, _, question string) *driving.AskResult {
	m.gotSession = sessionID
	m.gotQuestion = question
	return m.result
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	sessions []domain.Session
	turns    []domain.ConversationTurn
	err      error
}

func (m *mockSessionService) NewSession(_ string) string {
	return "session-1"
}

func (m *mockSessionService) ListSessions(_ context.Context) ([]domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) Turns(_ context.Context, _ string) ([]domain.ConversationTurn, error) {
	return m.turns, m.err
}
