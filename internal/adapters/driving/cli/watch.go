package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/core/ports/driving"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and re-index changed documents",
	Long: `Performs an initial index of the directory, then watches it for
changes. Created and modified files are re-indexed as they change,
replacing their previous vectors. Removed files have their vectors
deleted. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if loaderRegistry == nil {
		return errors.New("loader registry not configured")
	}
	if dirWatcher == nil {
		return errors.New("directory watcher not configured")
	}

	dir := args[0]
	ctx := cmd.Context()

	scan, err := loaderRegistry.ScanDirectory(ctx, dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	report, err := ingestService.IngestDocuments(ctx, scan.Documents, driving.IngestOptions{})
	if err != nil {
		return fmt.Errorf("initial ingestion failed: %w", err)
	}
	printIngestReport(cmd, report)

	events, err := dirWatcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for changes...\n", dir)

	for ev := range events {
		switch ev.Op {
		case domain.FileCreated, domain.FileModified:
			if err := reindexFile(cmd, ev.Path); err != nil {
				cmd.Printf("  failed: %s: %v\n", ev.Path, err)
			}
		case domain.FileRemoved:
			if err := ingestService.RemoveSource(ctx, filepath.Base(ev.Path)); err != nil {
				cmd.Printf("  failed: %s: %v\n", ev.Path, err)
				continue
			}
			cmd.Printf("Removed %s (vectors deleted)\n", ev.Path)
		}
	}

	return nil
}

func reindexFile(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	doc, err := loaderRegistry.Load(ctx, path)
	if err != nil {
		return err
	}
	if doc.Text == "" {
		logger.Debug("skipping empty document %s", path)
		return nil
	}

	report, err := ingestService.IngestDocuments(ctx, []domain.SourceDocument{*doc}, driving.IngestOptions{Replace: true})
	if err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		return errors.New(report.Failures[0].Reason)
	}

	cmd.Printf("Re-indexed %s (%d vectors)\n", path, report.VectorsWritten)
	return nil
}
