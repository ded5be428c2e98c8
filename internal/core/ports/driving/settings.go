package driving

import (
	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get returns the current settings, with defaults filled in for
	// anything not yet configured.
	Get() (*domain.AppSettings, error)

	// SetEmbedding persists embedding provider settings.
	SetEmbedding(settings domain.EmbeddingSettings) error

	// SetChat persists chat model settings.
	SetChat(settings domain.ChatSettings) error

	// SetVectorStore persists vector index settings.
	SetVectorStore(settings domain.VectorStoreSettings) error

	// SetDataset persists corpus file settings.
	SetDataset(settings domain.DatasetSettings) error

	// Validate checks that the current settings are complete enough
	// to serve requests.
	Validate() error
}
