package driven

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// ChatGroupStore persists chat group records.
type ChatGroupStore interface {
	// CreateGroup inserts a new group and returns it with its
	// assigned ID.
	CreateGroup(ctx context.Context, group domain.ChatGroup) (*domain.ChatGroup, error)

	// GetGroup fetches a group by ID. Returns domain.ErrNotFound when
	// absent.
	GetGroup(ctx context.Context, id int64) (*domain.ChatGroup, error)

	// ListGroups returns groups matching the filter, ordered by ID.
	ListGroups(ctx context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error)

	// UpdateGroup applies the non-nil fields of upd to the group.
	UpdateGroup(ctx context.Context, id int64, upd domain.ChatGroupUpdate) (*domain.ChatGroup, error)

	// DeleteGroup removes a group by ID.
	DeleteGroup(ctx context.Context, id int64) error
}

// ChatHistoryStore persists question/answer exchange records.
type ChatHistoryStore interface {
	// CreateHistory inserts a new record and returns it with its
	// assigned ID.
	CreateHistory(ctx context.Context, rec domain.ChatHistoryRecord) (*domain.ChatHistoryRecord, error)

	// GetHistory fetches a record by ID. Returns domain.ErrNotFound
	// when absent.
	GetHistory(ctx context.Context, id int64) (*domain.ChatHistoryRecord, error)

	// ListHistory returns records matching the filter, newest first.
	ListHistory(ctx context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error)

	// UpdateHistory applies the non-nil fields of upd to the record.
	UpdateHistory(ctx context.Context, id int64, upd domain.ChatHistoryUpdate) (*domain.ChatHistoryRecord, error)

	// DeleteHistory removes a record by ID.
	DeleteHistory(ctx context.Context, id int64) error

	// Close releases the underlying store.
	Close() error
}
