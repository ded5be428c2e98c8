package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, chat model, vector store
and corpus location.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the embedding provider used at ingestion and query time.

The same provider and model must be used for both, or retrieval quality
silently degrades.`,
	RunE: runSettingsEmbedding,
}

var settingsChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Configure the chat model",
	RunE:  runSettingsChat,
}

var settingsVectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Configure the vector store",
	RunE:  runSettingsVector,
}

var settingsDatasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Configure the corpus dataset file",
	RunE:  runSettingsDataset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsChatCmd)
	settingsCmd.AddCommand(settingsVectorCmd)
	settingsCmd.AddCommand(settingsDatasetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", apiKeyStatus(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Provider: %s\n", settings.Chat.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Chat.Model)
	if settings.Chat.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Chat.BaseURL)
	}
	if settings.Chat.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", apiKeyStatus(settings.Chat.APIKey))
	}
	cmd.Printf("  Max tool iterations: %d\n", settings.Chat.MaxToolIterations)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Chat.IsConfigured()))
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  URL: %s\n", settings.VectorStore.URL)
	cmd.Printf("  Collection: %s\n", settings.VectorStore.Collection)
	cmd.Println()

	cmd.Println("[Dataset]")
	cmd.Printf("  File: %s\n", settings.Dataset.Path())
	cmd.Printf("  History: %s\n", settings.HistoryFile)
	cmd.Printf("  Chunking: %d chars, %d overlap, top-%d retrieval\n",
		settings.ChunkSize, settings.ChunkOverlap, settings.RetrieveTopK)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docchat settings embedding' and 'docchat settings chat' to finish setup.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

//nolint:dupl // Similar to runSettingsChat but for embeddings - intentional for CLI flow clarity
func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	provider := selectProvider(cmd, reader)

	defaultModel := domain.DefaultEmbeddingModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	settings := domain.EmbeddingSettings{Provider: provider, Model: model}
	if provider.IsLocal() {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		settings.BaseURL = readLine(reader)
	}
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		settings.APIKey = readPassword()
		cmd.Println()
		if settings.APIKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbedding(settings); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	reportEmbeddingConnectivity(cmd, settings)
	return nil
}

// reportEmbeddingConnectivity pings the freshly configured provider.
// The configuration is already saved; a failed ping only warns.
func reportEmbeddingConnectivity(cmd *cobra.Command, settings domain.EmbeddingSettings) {
	if embeddingPing == nil {
		return
	}
	if err := embeddingPing(settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
		return
	}
	cmd.Println("Connectivity check passed.")
}

func reportChatConnectivity(cmd *cobra.Command, settings domain.ChatSettings) {
	if chatPing == nil {
		return
	}
	if err := chatPing(settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
		return
	}
	cmd.Println("Connectivity check passed.")
}

//nolint:dupl // Similar to runSettingsEmbedding but for chat - intentional for CLI flow clarity
func runSettingsChat(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	provider := selectProvider(cmd, reader)

	defaultModel := domain.DefaultChatModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	settings := domain.ChatSettings{Provider: provider, Model: model}
	if provider.IsLocal() {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		settings.BaseURL = readLine(reader)
	}
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		settings.APIKey = readPassword()
		cmd.Println()
		if settings.APIKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetChat(settings); err != nil {
		return fmt.Errorf("failed to configure chat model: %w", err)
	}

	cmd.Printf("Chat model configured: %s (%s)\n", provider.Description(), model)
	reportChatConnectivity(cmd, settings)
	return nil
}

func runSettingsVector(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	current, err := settingsService.Get()
	if err != nil {
		return err
	}

	settings := current.VectorStore
	cmd.Printf("Qdrant URL [%s]: ", settings.URL)
	if url := readLine(reader); url != "" {
		settings.URL = url
	}
	cmd.Printf("Collection [%s]: ", settings.Collection)
	if collection := readLine(reader); collection != "" {
		settings.Collection = collection
	}
	cmd.Print("API key (empty for none): ")
	settings.APIKey = readPassword()
	cmd.Println()

	if err := settingsService.SetVectorStore(settings); err != nil {
		return fmt.Errorf("failed to configure vector store: %w", err)
	}

	cmd.Println("Vector store configured.")
	return nil
}

func runSettingsDataset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	current, err := settingsService.Get()
	if err != nil {
		return err
	}

	settings := current.Dataset
	cmd.Printf("Dataset folder [%s]: ", settings.Folder)
	if folder := readLine(reader); folder != "" {
		settings.Folder = folder
	}
	cmd.Printf("Dataset file name [%s]: ", settings.FileName)
	if name := readLine(reader); name != "" {
		settings.FileName = name
	}

	if err := settingsService.SetDataset(settings); err != nil {
		return fmt.Errorf("failed to configure dataset: %w", err)
	}

	cmd.Printf("Dataset configured: %s\n", settings.Path())
	return nil
}

// Helper functions.

func selectProvider(cmd *cobra.Command, reader *bufio.Reader) domain.AIProvider {
	cmd.Println("Select Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	return providers[idx-1]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func apiKeyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
