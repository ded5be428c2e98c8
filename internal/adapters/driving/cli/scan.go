package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/ports/driven"
	"github.com/atlara-labs/docchat-cli/internal/loaders"
)

var (
	scanCheck        bool
	scanOutput       string
	scanRelativeKeys bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Preview which files a directory ingest would load",
	Long: `Walks a directory with the registered loaders and reports what would
be ingested, without touching the vector store. Useful to check loader
coverage (for example whether pdftotext is installed) before running
'docchat ingest'.

With --output, additionally writes the loaded documents as a dataset
file (a JSON object mapping source to text) that 'docchat ingest' can
read. An existing file at that path is renamed with a timestamp suffix
first.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanCheck, "check", false, "also report loader tool availability")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write the documents as a dataset file")
	scanCmd.Flags().BoolVar(&scanRelativeKeys, "relative-keys", false, "key documents by relative path instead of file name")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if loaderRegistry == nil {
		return errors.New("loader registry not configured")
	}

	cmd.Printf("Supported extensions: %v\n", loaderRegistry.Extensions())

	if scanCheck {
		cmd.Println("Loaders:")
		for _, l := range loaderRegistry.Loaders() {
			checkLoader(cmd, l)
		}
	}

	var scanOpts []loaders.ScanOption
	if scanRelativeKeys {
		scanOpts = append(scanOpts, loaders.WithRelativeKeys())
	}
	result, err := loaderRegistry.ScanDirectory(cmd.Context(), args[0], scanOpts...)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}

	for _, doc := range result.Documents {
		cmd.Printf("  %s (%q, %d chars)\n", doc.SourceID, doc.Title, len(doc.Text))
	}
	cmd.Printf("%d loadable documents", len(result.Documents))
	if result.SkippedUnsupported > 0 || result.SkippedEmpty > 0 || result.SkippedUnreadable > 0 {
		cmd.Printf(" (%d unsupported, %d empty, %d unreadable skipped)",
			result.SkippedUnsupported, result.SkippedEmpty, result.SkippedUnreadable)
	}
	cmd.Println()

	if scanOutput != "" {
		if err := loaders.WriteDatasetFile(scanOutput, result.Documents); err != nil {
			return err
		}
		cmd.Printf("Dataset written to %s\n", scanOutput)
	}

	return nil
}

func checkLoader(cmd *cobra.Command, l driven.Loader) {
	if err := l.CheckAvailable(); err != nil {
		cmd.Printf("  %v unavailable: %v\n", l.Extensions(), err)
		cmd.Println(l.InstallInstructions())
		return
	}
	cmd.Printf("  %v ok\n", l.Extensions())
}
