package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/atlara-labs/docchat-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed store for the chat admin tables. It provides
// access to the group and history store interfaces through wrapper types
// sharing one database connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docchat/data/chat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chat.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChatGroupStore returns a ChatGroupStore interface backed by this store.
func (s *Store) ChatGroupStore() driven.ChatGroupStore {
	return &chatGroupStore{store: s}
}

// ChatHistoryStore returns a ChatHistoryStore interface backed by this store.
func (s *Store) ChatHistoryStore() driven.ChatHistoryStore {
	return &chatHistoryStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_chat.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chat Group Store ====================

// chatGroupStore implements driven.ChatGroupStore.
type chatGroupStore struct {
	store *Store
}

var _ driven.ChatGroupStore = (*chatGroupStore)(nil)

// CreateGroup inserts a new group and returns it with its assigned ID.
func (s *chatGroupStore) CreateGroup(ctx context.Context, group domain.ChatGroup) (*domain.ChatGroup, error) {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chat_group_dtl (user_id, name, description, active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, group.UserID, group.Name, group.Description, group.Active, group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating chat group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting chat group id: %w", err)
	}
	group.ID = id

	return &group, nil
}

// GetGroup retrieves a group by ID.
func (s *chatGroupStore) GetGroup(ctx context.Context, id int64) (*domain.ChatGroup, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, active, created_at
		FROM chat_group_dtl WHERE id = ?
	`, id)

	return scanGroup(row)
}

// ListGroups returns groups matching the filter, ordered by ID.
func (s *chatGroupStore) ListGroups(ctx context.Context, filter domain.ChatGroupFilter) ([]domain.ChatGroup, error) {
	query := `
		SELECT id, user_id, name, description, active, created_at
		FROM chat_group_dtl
	`
	if filter.ActiveOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY id"

	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying chat groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.ChatGroup //nolint:prealloc // size unknown from query
	for rows.Next() {
		var g domain.ChatGroup
		var createdAt sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.Active, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat group: %w", err)
		}
		if createdAt.Valid {
			g.CreatedAt = createdAt.Time
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat groups: %w", err)
	}

	return groups, nil
}

// UpdateGroup applies the non-nil fields of upd and returns the updated group.
func (s *chatGroupStore) UpdateGroup(
	ctx context.Context,
	id int64,
	upd domain.ChatGroupUpdate,
) (*domain.ChatGroup, error) {
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
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

	_, err = s.store.db.ExecContext(ctx, `
		UPDATE chat_group_dtl
		SET user_id = ?, name = ?, description = ?, active = ?
		WHERE id = ?
	`, group.UserID, group.Name, group.Description, group.Active, id)
	if err != nil {
		return nil, fmt.Errorf("updating chat group: %w", err)
	}

	return group, nil
}

// DeleteGroup removes a group by ID.
func (s *chatGroupStore) DeleteGroup(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM chat_group_dtl WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting chat group: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanGroup scans a single group row.
func scanGroup(row *sql.Row) (*domain.ChatGroup, error) {
	var g domain.ChatGroup
	var createdAt sql.NullTime

	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.Active, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chat group: %w", err)
	}

	if createdAt.Valid {
		g.CreatedAt = createdAt.Time
	}

	return &g, nil
}

// ==================== Chat History Store ====================

// chatHistoryStore implements driven.ChatHistoryStore.
type chatHistoryStore struct {
	store *Store
}

var _ driven.ChatHistoryStore = (*chatHistoryStore)(nil)

// CreateHistory inserts a new record and returns it with its assigned ID.
func (s *chatHistoryStore) CreateHistory(
	ctx context.Context,
	rec domain.ChatHistoryRecord,
) (*domain.ChatHistoryRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chat_history (user_id, user_inquiry, assistant_response, reference_id, chat_group_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.UserID, rec.UserInquiry, rec.AssistantResponse, rec.ReferenceID,
		nullInt64(rec.ChatGroupID), rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating chat history record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting chat history id: %w", err)
	}
	rec.ID = id

	return &rec, nil
}

// GetHistory retrieves a record by ID.
func (s *chatHistoryStore) GetHistory(ctx context.Context, id int64) (*domain.ChatHistoryRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_inquiry, assistant_response, reference_id, chat_group_id, created_at
		FROM chat_history WHERE id = ?
	`, id)

	return scanHistory(row)
}

// ListHistory returns records matching the filter, newest first.
func (s *chatHistoryStore) ListHistory(ctx context.Context, filter domain.ChatHistoryFilter) ([]domain.ChatHistoryRecord, error) {
	query := `
		SELECT id, user_id, user_inquiry, assistant_response, reference_id, chat_group_id, created_at
		FROM chat_history
	`
	args := []any{}
	if filter.GroupID != 0 {
		query += " WHERE chat_group_id = ?"
		args = append(args, filter.GroupID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer rows.Close()

	var records []domain.ChatHistoryRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.ChatHistoryRecord
		var groupID sql.NullInt64
		var createdAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.UserInquiry, &rec.AssistantResponse,
			&rec.ReferenceID, &groupID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat history record: %w", err)
		}
		rec.ChatGroupID = groupID.Int64
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat history: %w", err)
	}

	return records, nil
}

// UpdateHistory applies the non-nil fields of upd and returns the updated record.
func (s *chatHistoryStore) UpdateHistory(
	ctx context.Context,
	id int64,
	upd domain.ChatHistoryUpdate,
) (*domain.ChatHistoryRecord, error) {
	rec, err := s.GetHistory(ctx, id)
	if err != nil {
		return nil, err
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

	_, err = s.store.db.ExecContext(ctx, `
		UPDATE chat_history
		SET user_id = ?, user_inquiry = ?, assistant_response = ?, reference_id = ?, chat_group_id = ?
		WHERE id = ?
	`, rec.UserID, rec.UserInquiry, rec.AssistantResponse, rec.ReferenceID,
		nullInt64(rec.ChatGroupID), id)
	if err != nil {
		return nil, fmt.Errorf("updating chat history record: %w", err)
	}

	return rec, nil
}

// DeleteHistory removes a record by ID.
func (s *chatHistoryStore) DeleteHistory(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM chat_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting chat history record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close closes the underlying database connection.
func (s *chatHistoryStore) Close() error {
	return s.store.Close()
}

// scanHistory scans a single history row.
func scanHistory(row *sql.Row) (*domain.ChatHistoryRecord, error) {
	var rec domain.ChatHistoryRecord
	var groupID sql.NullInt64
	var createdAt sql.NullTime

	if err := row.Scan(&rec.ID, &rec.UserID, &rec.UserInquiry, &rec.AssistantResponse,
		&rec.ReferenceID, &groupID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chat history record: %w", err)
	}

	rec.ChatGroupID = groupID.Int64
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return &rec, nil
}

// nullInt64 maps a zero group ID to NULL so the foreign key constraint
// only applies to real group references.
func nullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
