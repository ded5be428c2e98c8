package cli

import (
	"context"
	"errors"
	"time"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
	"github.com/atlara-labs/docchat-cli/internal/loaders/plaintext"
)

// setupTestServices swaps the injected services for in-memory mocks and
// returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldChat := chatService
	oldSession := sessionService
	oldAdmin := adminService
	oldSettings := settingsService
	oldRegistry := loaderRegistry

	ingestService = &mockIngestService{}
	retrievalService = &mockRetrievalService{}
	chatService = &mockChatService{}
	sessionService = &mockSessionService{}
	adminService = &mockAdminService{}
	settingsService = &mockSettingsService{}

	registry := loaders.NewRegistry()
	registry.Register(plaintext.New())
	loaderRegistry = registry

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		chatService = oldChat
		sessionService = oldSession
		adminService = oldAdmin
		settingsService = oldSettings
		loaderRegistry = oldRegistry
	}
}

type mockIngestService struct {
	err error

	gotOpts        driving.IngestOptions
	removedSources []string
}

func (m *mockIngestService) IngestDataset(_ context.Context, _ driving.IngestOptions) (*domain.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestReport{Attempted: 3, Ingested: 3, VectorsWritten: 9}, nil
}

func (m *mockIngestService) IngestDocuments(_ context.Context, docs []domain.SourceDocument, opts driving.IngestOptions) (*domain.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.gotOpts = opts
	return &domain.IngestReport{
		Attempted:      len(docs),
		Ingested:       len(docs),
		VectorsWritten: len(docs) * 2,
	}, nil
}

func (m *mockIngestService) RemoveSource(_ context.Context, sourceID string) error {
	if m.err != nil {
		return m.err
	}
	m.removedSources = append(m.removedSources, sourceID)
	return nil
}

type mockRetrievalService struct{}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	return []domain.RetrievedChunk{
		{SourceID: "doc-1", Title: "Mock Document", Text: "mock passage", Score: 0.9},
	}, nil
}

func (m *mockRetrievalService) RetrieveSerialized(_ context.Context, _ string, _ int) (string, error) {
	return "Source: doc-1\nContent: mock passage\n\n", nil
}

type mockChatService struct {
	result *driving.AskResult
}

func (m *mockChatService) Ask(_ context.Context, _, _, _ string) *driving.AskResult {
	if m.result != nil {
		return m.result
	}
	return &driving.AskResult{Answer: "Mock answer (Source: doc-1)", RequestID: "req-1"}
}

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

type mockAdminService struct {
	err error

	gotGroupFilter   domain.ChatGroupFilter
	gotHistoryFilter domain.ChatHistoryFilter
}

func (m *mockAdminService) CreateGroup(_ context.Context, group domain.ChatGroup) (*domain.ChatGroup, error) {
	if m.err != nil {
		return nil, m.err
	}
	group.ID = 1
	group.CreatedAt = time.Now().UTC()
	return &group, nil
}

func (m *mockAdminService) GetGroup(_ context.Context, id int64) (*domain.ChatGroup, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ChatGroup{ID: id, UserID: "alice", Name: "support", Active: true}, nil
}

func (m *mockAdminService) ListGroups(_ context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error) {
	m.gotGroupFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	groups := []domain.ChatGroup{
		{ID: 1, UserID: "alice", Name: "support", Active: true},
		{ID: 2, UserID: "bob", Name: "research", Description: "paper corpus", Active: false},
	}
	if filter.ActiveOnly {
		groups = groups[:1]
	}
	return groups, nil
}

func (m *mockAdminService) UpdateGroup(_ context.Context, id int64, upd domain.ChatGroupUpdate) (*domain.ChatGroup, error) {
	if m.err != nil {
		return nil, m.err
	}
	group := domain.ChatGroup{ID: id, UserID: "alice", Name: "support", Active: true}
	if upd.Name != nil {
		group.Name = *upd.Name
	}
	if upd.UserID != nil {
		group.UserID = *upd.UserID
	}
	if upd.Description != nil {
		group.Description = *upd.Description
	}
	if upd.Active != nil {
		group.Active = *upd.Active
	}
	return &group, nil
}

func (m *mockAdminService) DeleteGroup(_ context.Context, _ int64) error {
	return m.err
}

func (m *mockAdminService) RecordExchange(_ context.Context, rec domain.ChatHistoryRecord) (*domain.ChatHistoryRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec.ID = 1
	rec.CreatedAt = time.Now().UTC()
	return &rec, nil
}

func (m *mockAdminService) GetExchange(_ context.Context, id int64) (*domain.ChatHistoryRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ChatHistoryRecord{
		ID:                id,
		UserID:            "alice",
		UserInquiry:       "What is chunk overlap?",
		AssistantResponse: "Overlap carries context across chunk boundaries.",
	}, nil
}

func (m *mockAdminService) ListExchanges(_ context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error) {
	m.gotHistoryFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return []domain.ChatHistoryRecord{
		{ID: 2, UserID: "alice", UserInquiry: "second question"},
		{ID: 1, UserID: "alice", UserInquiry: "first question", AssistantResponse: "first answer"},
	}, nil
}

func (m *mockAdminService) UpdateExchange(_ context.Context, id int64, upd domain.ChatHistoryUpdate) (*domain.ChatHistoryRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec := domain.ChatHistoryRecord{ID: id, UserID: "alice", UserInquiry: "question"}
	if upd.UserID != nil {
		rec.UserID = *upd.UserID
	}
	if upd.UserInquiry != nil {
		rec.UserInquiry = *upd.UserInquiry
	}
	if upd.AssistantResponse != nil {
		rec.AssistantResponse = *upd.AssistantResponse
	}
	if upd.ReferenceID != nil {
		rec.ReferenceID = *upd.ReferenceID
	}
	if upd.ChatGroupID != nil {
		rec.ChatGroupID = *upd.ChatGroupID
	}
	return &rec, nil
}

func (m *mockAdminService) DeleteExchange(_ context.Context, _ int64) error {
	return m.err
}

// emptyAdminService reports no stored groups or exchanges.
type emptyAdminService struct {
	mockAdminService
}

func (e *emptyAdminService) ListGroups(_ context.Context, _ domain.ChatGroupFilter) ([]domain.ChatGroup, error) {
	return nil, nil
}

func (e *emptyAdminService) ListExchanges(_ context.Context, _ domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error) {
	return nil, nil
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings != nil {
		return m.settings, nil
	}
	s := domain.DefaultAppSettings()
	s.Embedding.Model = "nomic-embed-text"
	s.Chat.Model = "llama3.1"
	return &s, nil
}

func (m *mockSettingsService) SetEmbedding(_ domain.EmbeddingSettings) error { return m.err }

func (m *mockSettingsService) SetChat(_ domain.ChatSettings) error { return m.err }

func (m *mockSettingsService) SetVectorStore(_ domain.VectorStoreSettings) error { return m.err }

func (m *mockSettingsService) SetDataset(_ domain.DatasetSettings) error { return m.err }

func (m *mockSettingsService) Validate() error {
	if m.validateErr != nil {
		return m.validateErr
	}
	return m.err
}

// errBackend is shared by the error-path tests.
var errBackend = errors.New("backend unavailable")
