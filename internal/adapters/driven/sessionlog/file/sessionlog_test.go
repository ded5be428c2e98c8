package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

func newTestLog(t *testing.T) *SessionLog {
	t.Helper()
	log, err := New(filepath.Join(t.TempDir(), "chat_history.jsonl"))
	require.NoError(t, err)
	return log
}

func turn(role domain.Role, content, sessionID string) domain.ConversationTurn {
	return domain.ConversationTurn{
		Timestamp: time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
		Role:      role,
		Content:   content,
		RequestID: "req-1",
		SessionID: sessionID,
	}
}

func TestAppendAndReadAll(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, turn(domain.RoleUser, "hello", "s1")))
	require.NoError(t, log.Append(ctx, turn(domain.RoleAssistant, "hi there", "s1")))

	turns, err := log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "s1", turns[0].SessionID)
	assert.Equal(t, "req-1", turns[0].RequestID)
	assert.True(t, turns[0].Timestamp.Equal(time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)))
}

func TestAppend_WireFormat(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.ConversationTurn{
		Timestamp:   time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
		Role:        domain.RoleUser,
		Content:     "hello",
		RequestID:   "req-9",
		SessionID:   "s1",
		SessionName: "my chat",
	}))

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	line := strings.TrimSpace(string(raw))

	assert.JSONEq(t, `{
		"ts": "2025-04-02T09:30:00Z",
		"role": "user",
		"content": "hello",
		"request_id": "req-9",
		"chat_id": "s1",
		"chat_name": "my chat"
	}`, line)
}

func TestAppend_OmitsEmptyOptionalFields(t *testing.T) {
	log := newTestLog(t)

	require.NoError(t, log.Append(context.Background(), domain.ConversationTurn{
		Timestamp: time.Now(),
		Role:      domain.RoleUser,
		Content:   "legacy question",
	}))

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "chat_id")
	assert.NotContains(t, string(raw), "chat_name")
	assert.NotContains(t, string(raw), "request_id")
}

func TestReadAll_MissingFile(t *testing.T) {
	log := newTestLog(t)

	turns, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestReadAll_SkipsCorruptLines(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, turn(domain.RoleUser, "good one", "s1")))

	f, err := os.OpenFile(log.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{truncated\n{\"ts\":\"not-a-time\",\"role\":\"user\",\"content\":\"x\"}\n{\"ts\":\"2025-04-02T09:31:00Z\",\"role\":\"wizard\",\"content\":\"x\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, log.Append(ctx, turn(domain.RoleAssistant, "good two", "s1")))

	turns, err := log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "good one", turns[0].Content)
	assert.Equal(t, "good two", turns[1].Content)
}

func TestReadAll_LegacyAssistantRoles(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, turn(domain.RoleUser, "question", "s1")))

	f, err := os.OpenFile(log.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{\"ts\":\"2025-04-02T09:31:00Z\",\"role\":\"ai\",\"content\":\"old answer\"}\n" +
		"{\"ts\":\"2025-04-02T09:32:00Z\",\"role\":\"bot\",\"content\":\"older answer\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	turns, err := log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
	assert.Equal(t, "old answer", turns[1].Content)
	assert.Equal(t, domain.RoleAssistant, turns[2].Role)
	assert.Equal(t, "older answer", turns[2].Content)
}

func TestAppend_ConcurrentWritersKeepLinesIntact(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_ = log.Append(ctx, turn(domain.RoleUser, strings.Repeat("x", 100), "s1"))
			}
		}()
	}
	wg.Wait()

	turns, err := log.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, turns, 50)
	for _, tn := range turns {
		assert.Len(t, tn.Content, 100)
	}
}

func TestNew_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "log.jsonl")
	log, err := New(path)
	require.NoError(t, err)

	require.NoError(t, log.Append(context.Background(), turn(domain.RoleUser, "q", "")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
