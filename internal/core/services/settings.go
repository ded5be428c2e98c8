package services

import (
	"fmt"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
)

// Config keys used in the settings store.
const (
	keyEmbeddingProvider = "embedding.provider"
	keyEmbeddingModel    = "embedding.model"
	keyEmbeddingBaseURL  = "embedding.base_url"
	keyEmbeddingAPIKey   = "embedding.api_key"

	keyChatProvider          = "chat.provider"
	keyChatModel             = "chat.model"
	keyChatBaseURL           = "chat.base_url"
	keyChatAPIKey            = "chat.api_key"
	keyChatMaxToolIterations = "chat.max_tool_iterations"

	keyVectorURL        = "vector.url"
	keyVectorAPIKey     = "vector.api_key"
	keyVectorCollection = "vector.collection"

	keyDatasetFolder   = "dataset.folder"
	keyDatasetFileName = "dataset.file_name"

	keyHistoryFile  = "history_file"
	keyChunkSize    = "chunk_size"
	keyChunkOverlap = "chunk_overlap"
	keyRetrieveTopK = "retrieve_top_k"
)

// SettingsService implements driving.SettingsService on top of a
// key/value config store. Unset keys fall back to defaults.
type SettingsService struct {
	store driven.ConfigStore
}

var _ driving.SettingsService = (*SettingsService)(nil)

// NewSettingsService creates a settings service backed by store.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the current settings, with defaults filled in for
// anything not yet configured.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	settings.Embedding.Provider = s.provider(keyEmbeddingProvider, settings.Embedding.Provider)
	settings.Embedding.Model = s.str(keyEmbeddingModel, settings.Embedding.Model)
	settings.Embedding.BaseURL = s.str(keyEmbeddingBaseURL, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = s.str(keyEmbeddingAPIKey, settings.Embedding.APIKey)

	settings.Chat.Provider = s.provider(keyChatProvider, settings.Chat.Provider)
	settings.Chat.Model = s.str(keyChatModel, settings.Chat.Model)
	settings.Chat.BaseURL = s.str(keyChatBaseURL, settings.Chat.BaseURL)
	settings.Chat.APIKey = s.str(keyChatAPIKey, settings.Chat.APIKey)
	settings.Chat.MaxToolIterations = s.num(keyChatMaxToolIterations, settings.Chat.MaxToolIterations)

	settings.VectorStore.URL = s.str(keyVectorURL, settings.VectorStore.URL)
	settings.VectorStore.APIKey = s.str(keyVectorAPIKey, settings.VectorStore.APIKey)
	settings.VectorStore.Collection = s.str(keyVectorCollection, settings.VectorStore.Collection)

	settings.Dataset.Folder = s.str(keyDatasetFolder, settings.Dataset.Folder)
	settings.Dataset.FileName = s.str(keyDatasetFileName, settings.Dataset.FileName)

	settings.HistoryFile = s.str(keyHistoryFile, settings.HistoryFile)
	settings.ChunkSize = s.num(keyChunkSize, settings.ChunkSize)
	settings.ChunkOverlap = s.num(keyChunkOverlap, settings.ChunkOverlap)
	settings.RetrieveTopK = s.num(keyRetrieveTopK, settings.RetrieveTopK)

	return &settings, nil
}

// SetEmbedding persists embedding provider settings.
func (s *SettingsService) SetEmbedding(settings domain.EmbeddingSettings) error {
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Provider)
	}
	return s.setAll(map[string]any{
		keyEmbeddingProvider: settings.Provider.String(),
		keyEmbeddingModel:    settings.Model,
		keyEmbeddingBaseURL:  settings.BaseURL,
		keyEmbeddingAPIKey:   settings.APIKey,
	})
}

// SetChat persists chat model settings.
func (s *SettingsService) SetChat(settings domain.ChatSettings) error {
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Provider)
	}
	if settings.MaxToolIterations <= 0 {
		settings.MaxToolIterations = DefaultMaxToolIterations
	}
	return s.setAll(map[string]any{
		keyChatProvider:          settings.Provider.String(),
		keyChatModel:             settings.Model,
		keyChatBaseURL:           settings.BaseURL,
		keyChatAPIKey:            settings.APIKey,
		keyChatMaxToolIterations: settings.MaxToolIterations,
	})
}

// SetVectorStore persists vector index settings.
func (s *SettingsService) SetVectorStore(settings domain.VectorStoreSettings) error {
	return s.setAll(map[string]any{
		keyVectorURL:        settings.URL,
		keyVectorAPIKey:     settings.APIKey,
		keyVectorCollection: settings.Collection,
	})
}

// SetDataset persists corpus file settings.
func (s *SettingsService) SetDataset(settings domain.DatasetSettings) error {
	return s.setAll(map[string]any{
		keyDatasetFolder:   settings.Folder,
		keyDatasetFileName: settings.FileName,
	})
}

// Validate checks that the current settings are complete enough to
// serve requests.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

func (s *SettingsService) setAll(values map[string]any) error {
	for key, value := range values {
		if err := s.store.Set(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}

func (s *SettingsService) str(key, def string) string {
	if v := s.store.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) num(key string, def int) int {
	if v := s.store.GetInt(key); v != 0 {
		return v
	}
	return def
}

func (s *SettingsService) provider(key string, def domain.AIProvider) domain.AIProvider {
	if v := s.store.GetString(key); v != "" {
		return domain.AIProvider(v)
	}
	return def
}
