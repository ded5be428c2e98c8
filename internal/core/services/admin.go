package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure AdminService implements the interface.
var _ driving.AdminService = (*AdminService)(nil)

// AdminService manages chat groups and archived exchanges on top of
// the relational stores.
type AdminService struct {
	groups  driven.ChatGroupStore
	history driven.ChatHistoryStore
	now     func() time.Time
}

// NewAdminService creates an admin service.
func NewAdminService(groups driven.ChatGroupStore, history driven.ChatHistoryStore) *AdminService {
	return &AdminService{
		groups:  groups,
		history: history,
		now:     time.Now,
	}
}

// CreateGroup creates a chat group. The store assigns the ID.
func (s *AdminService) CreateGroup(ctx context.Context, group domain.ChatGroup) (*domain.ChatGroup, error) {
	group.UserID = strings.TrimSpace(group.UserID)
	group.Name = strings.TrimSpace(group.Name)
	if group.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if group.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now().UTC()
	}

	created, err := s.groups.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("creating chat group: %w", err)
	}
	return created, nil
}

// GetGroup fetches a group by ID.
func (s *AdminService) GetGroup(ctx context.Context, id int64) (*domain.ChatGroup, error) {
	return s.groups.GetGroup(ctx, id)
}

// ListGroups returns groups matching the filter.
func (s *AdminService) ListGroups(ctx context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error) {
	return s.groups.ListGroups(ctx, filter)
}

// UpdateGroup applies a partial update to a group.
func (s *AdminService) UpdateGroup(ctx context.Context, id int64, upd domain.ChatGroupUpdate) (*domain.ChatGroup, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: group name cannot be blank", domain.ErrInvalidInput)
	}
	return s.groups.UpdateGroup(ctx, id, upd)
}

// DeleteGroup removes a group.
func (s *AdminService) DeleteGroup(ctx context.Context, id int64) error {
	return s.groups.DeleteGroup(ctx, id)
}

// RecordExchange archives one question/answer pair. A zero CreatedAt
// is filled in; a non-zero ChatGroupID must refer to an existing
// group.
func (s *AdminService) RecordExchange(ctx context.Context, rec domain.ChatHistoryRecord) (*domain.ChatHistoryRecord, error) {
	if strings.TrimSpace(rec.UserInquiry) == "" {
		return nil, fmt.Errorf("%w: user inquiry is required", domain.ErrInvalidInput)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	if rec.ChatGroupID != 0 {
		if _, err := s.groups.GetGroup(ctx, rec.ChatGroupID); err != nil {
			return nil, fmt.Errorf("resolving chat group %d: %w", rec.ChatGroupID, err)
		}
	}

	created, err := s.history.CreateHistory(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("archiving exchange: %w", err)
	}
	return created, nil
}

// GetExchange fetches an archived exchange by ID.
func (s *AdminService) GetExchange(ctx context.Context, id int64) (*domain.ChatHistoryRecord, error) {
	return s.history.GetHistory(ctx, id)
}

// ListExchanges returns archived exchanges matching the filter.
func (s *AdminService) ListExchanges(ctx context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit cannot be negative", domain.ErrInvalidInput)
	}
	return s.history.ListHistory(ctx, filter)
}

// UpdateExchange applies a partial update to an exchange.
func (s *AdminService) UpdateExchange(ctx context.Context, id int64, upd domain.ChatHistoryUpdate) (*domain.ChatHistoryRecord, error) {
	if upd.ChatGroupID != nil && *upd.ChatGroupID != 0 {
		if _, err := s.groups.GetGroup(ctx, *upd.ChatGroupID); err != nil {
			return nil, fmt.Errorf("resolving chat group %d: %w", *upd.ChatGroupID, err)
		}
	}
	return s.history.UpdateHistory(ctx, id, upd)
}

// DeleteExchange removes an archived exchange.
func (s *AdminService) DeleteExchange(ctx context.Context, id int64) error {
	return s.history.DeleteHistory(ctx, id)
}
