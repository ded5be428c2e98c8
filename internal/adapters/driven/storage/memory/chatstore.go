// Package memory provides in-memory implementations of the chat admin
// stores, for tests and throwaway environments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure the stores implement the interfaces.
var (
	_ driven.ChatGroupStore   = (*ChatGroupStore)(nil)
	_ driven.ChatHistoryStore = (*ChatHistoryStore)(nil)
)

// ChatGroupStore is an in-memory implementation of driven.ChatGroupStore.
type ChatGroupStore struct {
	mu     sync.RWMutex
	groups map[int64]domain.ChatGroup
	nextID int64
}

// NewChatGroupStore creates a new in-memory chat group store.
func NewChatGroupStore() *ChatGroupStore {
	return &ChatGroupStore{
		groups: make(map[int64]domain.ChatGroup),
		nextID: 1,
	}
}

// CreateGroup inserts a new group and assigns it an ID.
func (s *ChatGroupStore) CreateGroup(_ context.Context, group domain.ChatGroup) (*domain.ChatGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group.ID = s.nextID
	s.nextID++
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	s.groups[group.ID] = group
	return &group, nil
}

// GetGroup retrieves a group by ID.
func (s *ChatGroupStore) GetGroup(_ context.Context, id int64) (*domain.ChatGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &group, nil
}

// ListGroups returns groups matching the filter, ordered by ID.
func (s *ChatGroupStore) ListGroups(_ context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ChatGroup, 0, len(s.groups))
	for _, group := range s.groups {
		if filter.ActiveOnly && !group.Active {
			continue
		}
		result = append(result, group)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateGroup applies the non-nil fields of upd to the group.
func (s *ChatGroupStore) UpdateGroup(_ context.Context, id int64, upd domain.ChatGroupUpdate) (*domain.ChatGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[id]
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
	s.groups[id] = group
	return &group, nil
}

// DeleteGroup removes a group.
func (s *ChatGroupStore) DeleteGroup(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.groups, id)
	return nil
}

// ChatHistoryStore is an in-memory implementation of driven.ChatHistoryStore.
type ChatHistoryStore struct {
	mu      sync.RWMutex
	records map[int64]domain.ChatHistoryRecord
	nextID  int64
}

// NewChatHistoryStore creates a new in-memory chat history store.
func NewChatHistoryStore() *ChatHistoryStore {
	return &ChatHistoryStore{
		records: make(map[int64]domain.ChatHistoryRecord),
		nextID:  1,
	}
}

// CreateHistory inserts a new record and assigns it an ID.
func (s *ChatHistoryStore) CreateHistory(_ context.Context, rec domain.ChatHistoryRecord) (*domain.ChatHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.records[rec.ID] = rec
	return &rec, nil
}

// GetHistory retrieves a record by ID.
func (s *ChatHistoryStore) GetHistory(_ context.Context, id int64) (*domain.ChatHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// ListHistory returns records matching the filter, newest first. Ties
// on the timestamp fall back to the higher ID first, matching
// insertion order within a clock tick.
func (s *ChatHistoryStore) ListHistory(_ context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ChatHistoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		if filter.GroupID != 0 && rec.ChatGroupID != filter.GroupID {
			continue
		}
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// UpdateHistory applies the non-nil fields of upd to the record.
func (s *ChatHistoryStore) UpdateHistory(_ context.Context, id int64, upd domain.ChatHistoryUpdate) (*domain.ChatHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
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
	s.records[id] = rec
	return &rec, nil
}

// DeleteHistory removes a record.
func (s *ChatHistoryStore) DeleteHistory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *ChatHistoryStore) Close() error {
	return nil
}
