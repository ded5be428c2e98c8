// Package file provides the append-only session log, stored as
// newline-delimited JSON. Each line is one conversation turn; the file
// is the source of truth for session listings and replays.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// Ensure SessionLog implements the interface.
var _ driven.SessionLog = (*SessionLog)(nil)

// maxLineSize bounds a single log line. Turns carry answer text, not
// documents, so 16 MiB is generous.
const maxLineSize = 16 * 1024 * 1024

// turnRecord is the wire format of one log line.
type turnRecord struct {
	Timestamp   string `json:"ts"`
	Role        string `json:"role"`
	Content     string `json:"content"`
	RequestID   string `json:"request_id,omitempty"`
	SessionID   string `json:"chat_id,omitempty"`
	SessionName string `json:"chat_name,omitempty"`
}

// SessionLog appends conversation turns to an NDJSON file.
type SessionLog struct {
	mu   sync.Mutex
	path string
}

// New creates a session log at path, creating parent directories as
// needed.
func New(path string) (*SessionLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &SessionLog{path: path}, nil
}

// Path returns the log file path.
func (l *SessionLog) Path() string {
	return l.path
}

// Append writes one turn as a single line and syncs it to disk before
// returning. A turn that Append acknowledged survives a crash.
func (l *SessionLog) Append(_ context.Context, turn domain.ConversationTurn) error {
	rec := turnRecord{
		Timestamp:   turn.Timestamp.UTC().Format(time.RFC3339Nano),
		Role:        string(turn.Role),
		Content:     turn.Content,
		RequestID:   turn.RequestID,
		SessionID:   turn.SessionID,
		SessionName: turn.SessionName,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding turn: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionLogUnavailable, err)
	}
	defer f.Close()

	// One complete line per write keeps concurrent appends from
	// interleaving within a record.
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionLogUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", domain.ErrSessionLogUnavailable, err)
	}
	return nil
}

// ReadAll returns every turn in append order. Lines that fail to
// parse are skipped with a warning so one corrupt record does not
// take the whole history down.
func (l *SessionLog) ReadAll(_ context.Context) ([]domain.ConversationTurn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionLogUnavailable, err)
	}
	defer f.Close()

	var turns []domain.ConversationTurn
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec turnRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("session log line %d is not valid JSON, skipping", lineNo)
			continue
		}

		turn, err := rec.toTurn()
		if err != nil {
			logger.Warn("session log line %d: %v, skipping", lineNo, err)
			continue
		}
		turns = append(turns, turn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionLogUnavailable, err)
	}
	return turns, nil
}

func (r turnRecord) toTurn() (domain.ConversationTurn, error) {
	ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return domain.ConversationTurn{}, fmt.Errorf("bad timestamp %q", r.Timestamp)
	}

	var role domain.Role
	switch r.Role {
	case string(domain.RoleUser):
		role = domain.RoleUser
	// Older logs wrote "ai" or "bot" for the assistant.
	case string(domain.RoleAssistant), "ai", "bot":
		role = domain.RoleAssistant
	default:
		return domain.ConversationTurn{}, fmt.Errorf("unknown role %q", r.Role)
	}

	return domain.ConversationTurn{
		Timestamp:   ts,
		Role:        role,
		Content:     r.Content,
		RequestID:   r.RequestID,
		SessionID:   r.SessionID,
		SessionName: r.SessionName,
	}, nil
}
