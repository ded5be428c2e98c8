package driven

import (
	"context"
	"encoding/json"
)

// ToolSpec describes a tool the model may invoke.
type ToolSpec struct {
	// Name is the tool identifier the model calls it by.
	Name string

	// Description tells the model what the tool does.
	Description string

	// Parameters is the JSON Schema of the tool arguments.
	Parameters json.RawMessage
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID correlates the call with its result message.
	ID string

	// Name is the requested tool.
	Name string

	// Arguments is the raw JSON argument object.
	Arguments json.RawMessage
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", "assistant", or "tool".
	Role string

	// Content is the message text.
	Content string

	// ToolCalls is set on assistant messages that requested tools.
	ToolCalls []ToolCall

	// ToolCallID is set on tool messages, echoing the call it answers.
	ToolCallID string
}

// Completion is the model's reply to a Complete call. Exactly one of
// Text or ToolCalls is meaningful: a non-empty ToolCalls means the
// model wants tool results before answering.
type Completion struct {
	// Text is the final answer text.
	Text string

	// ToolCalls are the tool invocations the model requested.
	ToolCalls []ToolCall
}

// CompleteOptions configures a completion request.
type CompleteOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
}

// LLMService conducts tool-calling conversations with a language model.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini and friends)
//   - Ollama (local models with tool support)
type LLMService interface {
	// Complete sends the conversation and available tools to the model
	// and returns either a final answer or requested tool calls.
	Complete(ctx context.Context, messages []ChatMessage, tools []ToolSpec, opts CompleteOptions) (*Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
