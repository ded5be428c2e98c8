package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// AllAIProviders returns the selectable providers in display order.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels maps each provider to its suggested embedding model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultChatModels maps each provider to its suggested chat model.
func DefaultChatModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.1",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
//
// The same provider, model and base URL must be used at ingestion time
// and at query time. Mixing models does not fail loudly; recall quality
// simply degrades because the two vector spaces are unrelated.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name. Required.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Model == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChatSettings holds chat model configuration.
type ChatSettings struct {
	// Provider is the chat model provider.
	Provider AIProvider

	// Model is the chat model name. Required.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// MaxToolIterations bounds the agent's decide/tool loop.
	MaxToolIterations int
}

// IsConfigured returns true if the chat provider is set up.
func (c ChatSettings) IsConfigured() bool {
	if !c.Provider.IsValid() || c.Model == "" {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// VectorStoreSettings holds vector index configuration.
type VectorStoreSettings struct {
	// URL is the Qdrant endpoint.
	URL string

	// APIKey authenticates against a hosted Qdrant. Optional.
	APIKey string

	// Collection is the collection name documents are ingested into.
	Collection string
}

// DatasetSettings holds corpus file configuration.
type DatasetSettings struct {
	// Folder is the directory holding the dataset file.
	Folder string

	// FileName is the dataset file name within Folder.
	FileName string
}

// Path returns the full dataset file path.
func (d DatasetSettings) Path() string {
	return d.Folder + "/" + d.FileName
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Chat holds chat model settings.
	Chat ChatSettings

	// VectorStore holds vector index settings.
	VectorStore VectorStoreSettings

	// Dataset holds corpus file settings.
	Dataset DatasetSettings

	// HistoryFile is the session log path.
	HistoryFile string

	// ChunkSize is the chunk window in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// RetrieveTopK is the number of chunks the retrieve tool returns.
	RetrieveTopK int
}

// DefaultAppSettings returns settings with sensible defaults. Model
// identifiers are deliberately left empty: they are required and their
// absence is a startup error, never silently defaulted.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
		},
		Chat: ChatSettings{
			Provider:          AIProviderOllama,
			MaxToolIterations: 5,
		},
		VectorStore: VectorStoreSettings{
			URL:        "http://localhost:6333",
			Collection: "docchat",
		},
		Dataset: DatasetSettings{
			Folder:   "datasets",
			FileName: "data.txt",
		},
		HistoryFile:  "datasets/chat_history.jsonl",
		ChunkSize:    1000,
		ChunkOverlap: 200,
		RetrieveTopK: 2,
	}
}

// Validate checks settings that must be present before the process can
// serve requests. Missing model identifiers fail fast at startup.
func (s AppSettings) Validate() error {
	if s.Embedding.Model == "" {
		return fmt.Errorf("%w: embedding model not set", ErrConfig)
	}
	if s.Chat.Model == "" {
		return fmt.Errorf("%w: chat model not set", ErrConfig)
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return ErrOverlapTooLarge
	}
	if s.Chat.MaxToolIterations <= 0 {
		return fmt.Errorf("%w: max tool iterations must be positive", ErrConfig)
	}
	return nil
}
