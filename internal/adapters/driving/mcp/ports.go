package mcp

import (
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval finds corpus passages for a query.
	Retrieval driving.RetrievalService

	// Chat runs full agent exchanges. Optional; without it only the
	// retrieve tool is exposed.
	Chat driving.ChatService

	// Session reads conversation history. Optional.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Chat and Session are optional
	return nil
}
