// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docchat. It lets AI assistants retrieve corpus passages and run agent
// exchanges against the indexed documents.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
