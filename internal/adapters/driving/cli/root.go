// Package cli implements the docchat command line interface using cobra.
// Commands talk to the core through the driving ports; the services are
// injected by main before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

var version = "dev"

var verbose bool

// Injected services. Nil services make their commands fail with a
// clear error instead of panicking.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
	sessionService   driving.SessionService
	adminService     driving.AdminService
	settingsService  driving.SettingsService
	loaderRegistry   *loaders.Registry
	dirWatcher       driven.DirWatcher
)

// Connectivity pings run by the settings flows after a provider is
// saved. A nil ping skips the check.
var (
	embeddingPing func(domain.EmbeddingSettings) error
	chatPing      func(domain.ChatSettings) error
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with a document corpus from the terminal",
	Long: `docchat indexes a document corpus into a vector store and answers
questions about it with an LLM agent that retrieves and cites passages.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetIngestService injects the ingestion service.
func SetIngestService(s driving.IngestService) {
	ingestService = s
}

// SetRetrievalService injects the retrieval service.
func SetRetrievalService(s driving.RetrievalService) {
	retrievalService = s
}

// SetChatService injects the chat agent service.
func SetChatService(s driving.ChatService) {
	chatService = s
}

// SetSessionService injects the session service.
func SetSessionService(s driving.SessionService) {
	sessionService = s
}

// SetAdminService injects the chat admin service.
func SetAdminService(s driving.AdminService) {
	adminService = s
}

// SetSettingsService injects the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetLoaderRegistry injects the document loader registry.
func SetLoaderRegistry(r *loaders.Registry) {
	loaderRegistry = r
}

// SetDirWatcher injects the directory watcher used by the watch command.
func SetDirWatcher(w driven.DirWatcher) {
	dirWatcher = w
}

// SetEmbeddingPing injects the embedding connectivity check.
func SetEmbeddingPing(f func(domain.EmbeddingSettings) error) {
	embeddingPing = f
}

// SetChatPing injects the chat model connectivity check.
func SetChatPing(f func(domain.ChatSettings) error) {
	chatPing = f
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
