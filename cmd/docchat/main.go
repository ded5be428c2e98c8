// Command docchat is a retrieval-augmented chatbot over a local
// document corpus. It wires the adapters to the core services and
// hands control to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/atlara-labs/docchat-cli/internal/adapters/driven/ai"
	"github.com/atlara-labs/docchat-cli/internal/adapters/driven/config/file"
	sessionfile "github.com/atlara-labs/docchat-cli/internal/adapters/driven/sessionlog/file"
	"github.com/atlara-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/atlara-labs/docchat-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/atlara-labs/docchat-cli/internal/adapters/driven/watch"
	"github.com/atlara-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/atlara-labs/docchat-cli/internal/chunker"
	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/services"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
	"github.com/atlara-labs/docchat-cli/internal/loaders/pdf"
	"github.com/atlara-labs/docchat-cli/internal/loaders/plaintext"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	applyEnvOverrides(settings)

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetEmbeddingPing(func(s domain.EmbeddingSettings) error {
		svc, err := ai.CreateAndValidateEmbeddingService(s)
		if err != nil {
			return err
		}
		return svc.Close()
	})
	cli.SetChatPing(func(s domain.ChatSettings) error {
		svc, err := ai.CreateAndValidateLLMService(s)
		if err != nil {
			return err
		}
		return svc.Close()
	})

	registry := loaders.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdf.New())
	cli.SetLoaderRegistry(registry)

	watcher, err := watch.NewFSNotify(registry.Extensions())
	if err != nil {
		return fmt.Errorf("creating directory watcher: %w", err)
	}
	defer watcher.Close()
	cli.SetDirWatcher(watcher)

	// The admin stores are independent of the model configuration, so
	// wire them before validating it. That keeps 'docchat groups' and
	// 'docchat history' usable on a fresh install.
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening chat store: %w", err)
	}
	defer store.Close()
	cli.SetAdminService(services.NewAdminService(store.ChatGroupStore(), store.ChatHistoryStore()))

	sessionLog, err := sessionfile.New(settings.HistoryFile)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	cli.SetSessionService(services.NewSessionService(sessionLog))

	// The retrieval and chat services need a complete model
	// configuration. Leave them nil when it is missing: their commands
	// report the problem, and 'docchat settings' still works.
	if err := settings.Validate(); err != nil {
		logger.Warn("configuration incomplete: %v (run 'docchat settings')", err)
		return cli.Execute()
	}

	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()
	llm, err := ai.CreateLLMService(settings.Chat)
	if err != nil {
		return err
	}
	defer llm.Close()

	vectors := qdrant.New(qdrant.Config{
		URL:        settings.VectorStore.URL,
		APIKey:     settings.VectorStore.APIKey,
		Collection: settings.VectorStore.Collection,
	})

	splitter, err := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	retrievalService := services.NewRetrievalService(embedder, vectors, settings.RetrieveTopK)
	cli.SetRetrievalService(retrievalService)

	cli.SetIngestService(services.NewIngestService(
		splitter,
		embedder,
		vectors,
		settings.Dataset.Path(),
	))

	cli.SetChatService(services.NewAgentService(
		llm,
		retrievalService,
		sessionLog,
		promptStore,
		services.WithMaxToolIterations(settings.Chat.MaxToolIterations),
		services.WithExchangeArchive(store.ChatHistoryStore()),
	))

	return cli.Execute()
}

// applyEnvOverrides lets environment variables take precedence over the
// stored configuration, so API keys can stay out of the config file.
func applyEnvOverrides(settings *domain.AppSettings) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if settings.Embedding.Provider == domain.AIProviderOpenAI {
			settings.Embedding.APIKey = key
		}
		if settings.Chat.Provider == domain.AIProviderOpenAI {
			settings.Chat.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		settings.VectorStore.APIKey = key
	}
	if url := os.Getenv("QDRANT_URL"); url != "" {
		settings.VectorStore.URL = url
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		if settings.Embedding.Provider == domain.AIProviderOllama {
			settings.Embedding.BaseURL = url
		}
		if settings.Chat.Provider == domain.AIProviderOllama {
			settings.Chat.BaseURL = url
		}
	}
}
