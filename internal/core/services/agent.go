package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// Ensure AgentService implements the interface.
var _ driving.ChatService = (*AgentService)(nil)

// RetrieveToolName is the tool the model calls to search the corpus.
const RetrieveToolName = "retrieve"

// DefaultMaxToolIterations bounds the agent's tool loop.
const DefaultMaxToolIterations = 5

// DefaultHistoryTurns is how many prior turns of a session are fed
// back to the model.
const DefaultHistoryTurns = 20

// FallbackAnswer is returned when the model produces no usable text.
const FallbackAnswer = "I don't know."

// retrieveToolParams is the JSON Schema for the retrieve tool.
var retrieveToolParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "The search query to run against the document corpus"
		}
	},
	"required": ["query"]
}`)

// AgentService answers questions with a bounded tool-calling loop over
// the retrieval service, logging every exchange to the session log.
type AgentService struct {
	llm       driven.LLMService
	retrieval driving.RetrievalService
	log       driven.SessionLog
	prompts   driven.PromptStore
	archive   driven.ChatHistoryStore

	maxToolIterations int
	historyTurns      int
	temperature       float64
	maxTokens         int

	now func() time.Time
}

// AgentOption configures the agent service.
type AgentOption func(*AgentService)

// WithMaxToolIterations bounds the tool loop.
func WithMaxToolIterations(n int) AgentOption {
	return func(s *AgentService) {
		if n > 0 {
			s.maxToolIterations = n
		}
	}
}

// WithHistoryTurns sets how many prior session turns are replayed to
// the model.
func WithHistoryTurns(n int) AgentOption {
	return func(s *AgentService) {
		if n >= 0 {
			s.historyTurns = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) AgentOption {
	return func(s *AgentService) {
		s.temperature = t
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) AgentOption {
	return func(s *AgentService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithExchangeArchive records each completed exchange in the chat
// history store. Archiving failures do not fail the exchange.
func WithExchangeArchive(store driven.ChatHistoryStore) AgentOption {
	return func(s *AgentService) {
		s.archive = store
	}
}

// withClock overrides the timestamp source. Used in tests.
func withClock(now func() time.Time) AgentOption {
	return func(s *AgentService) {
		s.now = now
	}
}

// NewAgentService creates an agent service.
func NewAgentService(
	llm driven.LLMService,
	retrieval driving.RetrievalService,
	log driven.SessionLog,
	prompts driven.PromptStore,
	opts ...AgentOption,
) *AgentService {
	s := &AgentService{
		llm:               llm,
		retrieval:         retrieval,
		log:               log,
		prompts:           prompts,
		maxToolIterations: DefaultMaxToolIterations,
		historyTurns:      DefaultHistoryTurns,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask runs one exchange: it logs the user turn, runs the tool loop,
// and logs the assistant turn. On failure the returned Answer is an
// apologetic message and Err carries the cause; the assistant turn is
// logged either way.
func (s *AgentService) Ask(ctx context.Context, sessionID, sessionName, question string) *driving.AskResult {
	result := &driving.AskResult{RequestID: uuid.New().String()}

	question = strings.TrimSpace(question)
	if question == "" {
		result.Err = fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
		result.Answer = errorAnswer(result.Err)
		return result
	}

	logger.Section("Agent Exchange")
	logger.Debug("Session: %q, request: %s", sessionID, result.RequestID)

	history, err := s.sessionHistory(ctx, sessionID)
	if err != nil {
		logger.Warn("could not load session history: %v", err)
	}

	userTurn := domain.ConversationTurn{
		Timestamp:   s.now().UTC(),
		Role:        domain.RoleUser,
		Content:     question,
		RequestID:   result.RequestID,
		SessionID:   sessionID,
		SessionName: sessionName,
	}
	if err := s.log.Append(ctx, userTurn); err != nil {
		result.Err = fmt.Errorf("%w: %v", domain.ErrSessionLogUnavailable, err)
		result.Answer = errorAnswer(result.Err)
		return result
	}

	answer, iterations, err := s.runToolLoop(ctx, history, question)
	result.ToolIterations = iterations
	if err != nil {
		result.Err = err
		result.Answer = errorAnswer(err)
	} else {
		result.Answer = answer
	}

	assistantTurn := domain.ConversationTurn{
		Timestamp:   s.now().UTC(),
		Role:        domain.RoleAssistant,
		Content:     result.Answer,
		RequestID:   result.RequestID,
		SessionID:   sessionID,
		SessionName: sessionName,
	}
	if err := s.log.Append(ctx, assistantTurn); err != nil {
		logger.Error("could not log assistant turn: %v", err)
		if result.Err == nil {
			result.Err = fmt.Errorf("%w: %v", domain.ErrSessionLogUnavailable, err)
		}
	}

	if s.archive != nil && result.Err == nil {
		rec := domain.ChatHistoryRecord{
			UserInquiry:       question,
			AssistantResponse: result.Answer,
			ReferenceID:       result.RequestID,
		}
		if _, err := s.archive.CreateHistory(ctx, rec); err != nil {
			logger.Warn("could not archive exchange: %v", err)
		}
	}

	return result
}

// runToolLoop drives the model until it answers or the iteration
// budget runs out. On exhaustion the model gets one final call with
// no tools so it has to commit to an answer.
func (s *AgentService) runToolLoop(ctx context.Context, history []driven.ChatMessage, question string) (string, int, error) {
	systemPrompt, err := s.prompts.Load(driven.PromptAgentSystem)
	if err != nil {
		return "", 0, fmt.Errorf("loading agent prompt: %w", err)
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})

	tools := []driven.ToolSpec{{
		Name:        RetrieveToolName,
		Description: "Search the indexed document corpus for passages relevant to a query. Returns passages with their sources.",
		Parameters:  retrieveToolParams,
	}}
	opts := driven.CompleteOptions{Temperature: s.temperature, MaxTokens: s.maxTokens}

	for iteration := 0; iteration < s.maxToolIterations; iteration++ {
		completion, err := s.llm.Complete(ctx, messages, tools, opts)
		if err != nil {
			return "", iteration, fmt.Errorf("completing: %w", err)
		}

		if len(completion.ToolCalls) == 0 {
			answer := strings.TrimSpace(completion.Text)
			if answer == "" {
				answer = FallbackAnswer
			}
			return answer, iteration, nil
		}

		logger.Debug("Iteration %d: %d tool calls", iteration, len(completion.ToolCalls))
		messages = append(messages, driven.ChatMessage{
			Role:      "assistant",
			Content:   completion.Text,
			ToolCalls: completion.ToolCalls,
		})

		for _, call := range completion.ToolCalls {
			messages = append(messages, driven.ChatMessage{
				Role:       "tool",
				Content:    s.runTool(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	// Budget exhausted: force a final answer.
	logger.Warn("Tool iteration budget exhausted after %d rounds", s.maxToolIterations)
	completion, err := s.llm.Complete(ctx, messages, nil, opts)
	if err != nil {
		return "", s.maxToolIterations, fmt.Errorf("completing after tool budget: %w", err)
	}
	answer := strings.TrimSpace(completion.Text)
	if answer == "" {
		answer = FallbackAnswer
	}
	return answer, s.maxToolIterations, nil
}

// runTool executes one tool call. Failures are reported back to the
// model as the tool result rather than aborting the exchange.
func (s *AgentService) runTool(ctx context.Context, call driven.ToolCall) string {
	if call.Name != RetrieveToolName {
		return fmt.Sprintf("unknown tool %q", call.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(call.Arguments, &args); err != nil || strings.TrimSpace(args.Query) == "" {
		return "invalid arguments: the retrieve tool needs a non-empty query string"
	}

	block, err := s.retrieval.RetrieveSerialized(ctx, args.Query, 0)
	if err != nil {
		logger.Warn("retrieve tool failed: %v", err)
		return fmt.Sprintf("retrieval failed: %v", err)
	}
	if block == "" {
		return "no relevant passages found"
	}
	return block
}

// sessionHistory replays the most recent turns of a session as chat
// messages. Unnamed (legacy) exchanges carry no session to replay.
func (s *AgentService) sessionHistory(ctx context.Context, sessionID string) ([]driven.ChatMessage, error) {
	if sessionID == "" || s.historyTurns == 0 {
		return nil, nil
	}

	turns, err := s.log.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var messages []driven.ChatMessage
	for _, turn := range turns {
		if turn.SessionID != sessionID {
			continue
		}
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Content})
	}

	if len(messages) > s.historyTurns {
		messages = messages[len(messages)-s.historyTurns:]
	}
	return messages, nil
}

// errorAnswer wraps a failure in the apology shown to the user.
func errorAnswer(err error) string {
	return fmt.Sprintf("Sorry, something went wrong while generating a response. (%v)", err)
}
