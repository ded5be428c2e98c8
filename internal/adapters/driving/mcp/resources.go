package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docchat resources.
	uriScheme = "docchat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing chat sessions.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sessions",
		Name:        "sessions",
		Description: "List of recorded chat sessions",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)

	// Template for session turns.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/turns",
		Name:        "session-turns",
		Description: "Turns of a specific chat session",
		MIMEType:    "application/json",
	}, s.handleTurnsResource)
}

// handleSessionsResource returns a list of recorded sessions.
func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Session == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	sessions, err := s.ports.Session.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	// Build simplified session list.
	type sessionInfo struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Turns  int    `json:"turns"`
		LastAt string `json:"last_at"`
	}

	infos := make([]sessionInfo, len(sessions))
	for i, session := range sessions {
		infos[i] = sessionInfo{
			ID:     session.ID,
			Name:   session.Name,
			Turns:  session.TurnCount,
			LastAt: session.LastTimestamp.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sessions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTurnsResource returns the turns of a specific session.
func (s *Server) handleTurnsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Session == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sessionId from URI: docchat://sessions/{sessionId}/turns
	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	turns, err := s.ports.Session.Turns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reading session turns: %w", err)
	}

	// Build simplified turn list.
	type turnInfo struct {
		At      string `json:"at"`
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	infos := make([]turnInfo, len(turns))
	for i := range turns {
		infos[i] = turnInfo{
			At:      turns[i].Timestamp.Format(time.RFC3339),
			Role:    string(turns[i].Role),
			Content: turns[i].Content,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling turns: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like docchat://sessions/{sessionId}/turns.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"
	const suffix = "/turns"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
