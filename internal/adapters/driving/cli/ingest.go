package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
)

var (
	ingestRebuild      bool
	ingestRelativeKeys bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Index the corpus into the vector store",
	Long: `Reads the configured dataset file, chunks each document, embeds the
chunks and writes them to the vector store.

With a directory argument, loads every supported file under the
directory instead of the dataset file.

A document that fails to embed or store is reported and skipped; the
rest of the run continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "drop the existing collection before indexing")
	ingestCmd.Flags().BoolVar(&ingestRelativeKeys, "relative-keys", false, "key documents by relative path instead of file name")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	opts := driving.IngestOptions{Rebuild: ingestRebuild}

	var report *domain.IngestReport
	var err error
	if len(args) == 1 {
		if loaderRegistry == nil {
			return errors.New("loader registry not configured")
		}
		var scanOpts []loaders.ScanOption
		if ingestRelativeKeys {
			scanOpts = append(scanOpts, loaders.WithRelativeKeys())
		}
		scan, scanErr := loaderRegistry.ScanDirectory(cmd.Context(), args[0], scanOpts...)
		if scanErr != nil {
			return fmt.Errorf("scanning %s: %w", args[0], scanErr)
		}
		report, err = ingestService.IngestDocuments(cmd.Context(), scan.Documents, opts)
	} else {
		report, err = ingestService.IngestDataset(cmd.Context(), opts)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	printIngestReport(cmd, report)
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Printf("Ingested %d/%d documents (%d vectors written)\n",
		report.Ingested, report.Attempted, report.VectorsWritten)
	if report.Skipped > 0 {
		cmd.Printf("Skipped %d empty documents\n", report.Skipped)
	}
	for _, failure := range report.Failures {
		cmd.Printf("  failed: %s: %s\n", failure.SourceID, failure.Reason)
	}
}
