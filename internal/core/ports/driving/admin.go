package driving

import (
	"context"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// AdminService manages chat groups and archived exchange records.
type AdminService interface {
	// CreateGroup creates a chat group and returns it with its ID.
	CreateGroup(ctx context.Context, group domain.ChatGroup) (*domain.ChatGroup, error)

	// GetGroup fetches a group by ID.
	GetGroup(ctx context.Context, id int64) (*domain.ChatGroup, error)

	// ListGroups returns groups matching the filter.
	ListGroups(ctx context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error)

	// UpdateGroup applies a partial update to a group.
	UpdateGroup(ctx context.Context, id int64, upd domain.ChatGroupUpdate) (*domain.ChatGroup, error)

	// DeleteGroup removes a group.
	DeleteGroup(ctx context.Context, id int64) error

	// RecordExchange archives one question/answer pair.
	RecordExchange(ctx context.Context, rec domain.ChatHistoryRecord) (*domain.ChatHistoryRecord, error)

	// GetExchange fetches an archived exchange by ID.
	GetExchange(ctx context.Context, id int64) (*domain.ChatHistoryRecord, error)

	// ListExchanges returns archived exchanges matching the filter,
	// newest first.
	ListExchanges(ctx context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error)

	// UpdateExchange applies a partial update to an exchange.
	UpdateExchange(ctx context.Context, id int64, upd domain.ChatHistoryUpdate) (*domain.ChatHistoryRecord, error)

	// DeleteExchange removes an archived exchange.
	DeleteExchange(ctx context.Context, id int64) error
}
