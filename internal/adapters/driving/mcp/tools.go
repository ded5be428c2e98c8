package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the query to find relevant passages for"`
	K     int    `json:"k,omitempty" jsonschema:"number of passages to return (default 2)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	Source string  `json:"source"`
	Title  string  `json:"title,omitempty"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question    string `json:"question" jsonschema:"the question to answer from the corpus"`
	SessionID   string `json:"session_id,omitempty" jsonschema:"session to continue (empty for a one-off exchange)"`
	SessionName string `json:"session_name,omitempty" jsonschema:"display name for the session"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string `json:"answer"`
	RequestID      string `json:"request_id"`
	ToolIterations int    `json:"tool_iterations"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve corpus passages relevant to a query",
	}, s.handleRetrieve)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question about the corpus with citations",
		}, s.handleAsk)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	chunks, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(chunks)),
		Count:    len(chunks),
	}

	for i := range chunks {
		output.Passages[i] = PassageOutput{
			Source: chunks[i].SourceID,
			Title:  chunks[i].Title,
			Text:   chunks[i].Text,
			Score:  chunks[i].Score,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Chat == nil {
		return nil, AskOutput{}, errors.New("chat service not available")
	}

	result := s.ports.Chat.Ask(ctx, input.SessionID, input.SessionName, input.Question)
	if result.Err != nil {
		return nil, AskOutput{}, result.Err
	}

	return nil, AskOutput{
		Answer:         result.Answer,
		RequestID:      result.RequestID,
		ToolIterations: result.ToolIterations,
	}, nil
}
