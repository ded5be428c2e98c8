package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no loader handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrOverlapTooLarge indicates a chunker configured with
	// overlap >= window, which can never terminate.
	ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than chunk size")

	// ErrConfig indicates a missing or invalid required configuration
	// value. Configuration errors are fatal at startup.
	ErrConfig = errors.New("invalid configuration")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrSessionLogUnavailable indicates the session log is not
	// configured. Conversations cannot be persisted without it.
	ErrSessionLogUnavailable = errors.New("session log unavailable")
)
