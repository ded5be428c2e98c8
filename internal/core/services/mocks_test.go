package services

import (
	"context"
	"sort"
	"sync"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedding implements driven.EmbeddingService for testing.
type mockEmbedding struct {
	vector   []float32
	embedErr error
	batchErr error

	embedCalls int
	batchCalls int
	batchSizes []int
}

func (m *mockEmbedding) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int              { return len(m.vector) }
func (m *mockEmbedding) ModelName() string            { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return nil }
func (m *mockEmbedding) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []domain.RetrievedChunk
	searchErr error
	addErr    error
	deleteErr error

	added          []driven.VectorPoint
	deletedAll     bool
	deletedSources []string
	searchedK      int
}

func (m *mockVectorIndex) Add(_ context.Context, points []driven.VectorPoint) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, points...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievedChunk, error) {
	m.searchedK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) DeleteBySource(_ context.Context, sourceID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedSources = append(m.deletedSources, sourceID)
	kept := m.added[:0]
	for _, p := range m.added {
		if p.Chunk.SourceID != sourceID {
			kept = append(kept, p)
		}
	}
	m.added = kept
	return nil
}

func (m *mockVectorIndex) DeleteAll(_ context.Context) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedAll = true
	m.added = nil
	return nil
}

func (m *mockVectorIndex) Ping(_ context.Context) error { return nil }
func (m *mockVectorIndex) Close() error                 { return nil }

// mockSessionLog implements driven.SessionLog in memory.
type mockSessionLog struct {
	mu        sync.Mutex
	turns     []domain.ConversationTurn
	appendErr error
	readErr   error
}

func (m *mockSessionLog) Append(_ context.Context, turn domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns = append(m.turns, turn)
	return nil
}

func (m *mockSessionLog) ReadAll(_ context.Context) ([]domain.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]domain.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out, nil
}

// mockLLM implements driven.LLMService with a scripted sequence of
// completions.
type mockLLM struct {
	completions []*driven.Completion
	err         error

	calls    int
	gotTools [][]driven.ToolSpec
	gotFinal []driven.ChatMessage
}

func (m *mockLLM) Complete(_ context.Context, messages []driven.ChatMessage, tools []driven.ToolSpec, _ driven.CompleteOptions) (*driven.Completion, error) {
	m.gotTools = append(m.gotTools, tools)
	m.gotFinal = messages
	if m.err != nil {
		return nil, m.err
	}
	if m.calls >= len(m.completions) {
		return &driven.Completion{Text: "out of script"}, nil
	}
	c := m.completions[m.calls]
	m.calls++
	return c, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompt, nil
}

func (m *mockPromptStore) Reload() {}

// mockGroupStore implements driven.ChatGroupStore in memory.
type mockGroupStore struct {
	groups map[int64]domain.ChatGroup
	nextID int64
}

func newMockGroupStore() *mockGroupStore {
	return &mockGroupStore{groups: make(map[int64]domain.ChatGroup)}
}

func (m *mockGroupStore) CreateGroup(_ context.Context, group domain.ChatGroup) (*domain.ChatGroup, error) {
	m.nextID++
	group.ID = m.nextID
	m.groups[group.ID] = group
	return &group, nil
}

func (m *mockGroupStore) GetGroup(_ context.Context, id int64) (*domain.ChatGroup, error) {
	group, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &group, nil
}

func (m *mockGroupStore) ListGroups(_ context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error) {
	out := make([]domain.ChatGroup, 0, len(m.groups))
	for _, g := range m.groups {
		if filter.ActiveOnly && !g.Active {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *mockGroupStore) UpdateGroup(_ context.Context, id int64, upd domain.ChatGroupUpdate) (*domain.ChatGroup, error) {
	group, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.UserID != nil {
		group.UserID = *upd.UserID
	}
	if upd.Name != nil {
		group.Name = *upd.Name
	}
	if upd.Description != nil {
		group.Description = *upd.Description
	}
	if upd.Active != nil {
		group.Active = *upd.Active
	}
	m.groups[id] = group
	return &group, nil
}

func (m *mockGroupStore) DeleteGroup(_ context.Context, id int64) error {
	if _, ok := m.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.groups, id)
	return nil
}

// mockHistoryStore implements driven.ChatHistoryStore in memory.
type mockHistoryStore struct {
	records map[int64]domain.ChatHistoryRecord
	nextID  int64
}

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{records: make(map[int64]domain.ChatHistoryRecord)}
}

func (m *mockHistoryStore) CreateHistory(_ context.Context, rec domain.ChatHistoryRecord) (*domain.ChatHistoryRecord, error) {
	m.nextID++
	rec.ID = m.nextID
	m.records[rec.ID] = rec
	return &rec, nil
}

func (m *mockHistoryStore) GetHistory(_ context.Context, id int64) (*domain.ChatHistoryRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *mockHistoryStore) ListHistory(_ context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error) {
	var out []domain.ChatHistoryRecord
	for _, rec := range m.records {
		if filter.GroupID == 0 || rec.ChatGroupID == filter.GroupID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockHistoryStore) UpdateHistory(_ context.Context, id int64, upd domain.ChatHistoryUpdate) (*domain.ChatHistoryRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
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
	m.records[id] = rec
	return &rec, nil
}

func (m *mockHistoryStore) DeleteHistory(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockHistoryStore) Close() error { return nil }

// Interface compliance for the mocks.
var (
	_ driven.EmbeddingService = (*mockEmbedding)(nil)
	_ driven.VectorIndex      = (*mockVectorIndex)(nil)
	_ driven.SessionLog       = (*mockSessionLog)(nil)
	_ driven.LLMService       = (*mockLLM)(nil)
	_ driven.PromptStore      = (*mockPromptStore)(nil)
	_ driven.ChatGroupStore   = (*mockGroupStore)(nil)
	_ driven.ChatHistoryStore = (*mockHistoryStore)(nil)
)
