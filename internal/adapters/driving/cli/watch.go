package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contentrag/internal/adapters/driving/watcher"
	"github.com/custodia-labs/contentrag/internal/core/domain"
)

var (
	watchDebounce time.Duration
	watchScan     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files as they appear in a directory",
	Long: `Watch a directory and ingest files when they are created or written.

Rapid successive writes to the same file are coalesced. Hidden files are
skipped and subdirectories are not watched. Removing a file does not
delete its document.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a changed file is ingested")
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "ingest existing files before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	opts := []watcher.Option{
		watcher.WithDebounce(watchDebounce),
		watcher.WithResultFunc(func(path string, result *domain.IngestResult, err error) {
			if err != nil {
				cmd.PrintErrf("✗ %s: %v\n", path, err)
				return
			}
			cmd.Printf("✓ %s → %s (%d chunks)\n", path, result.DocumentID, result.ChunkCount)
		}),
	}
	if watchScan {
		opts = append(opts, watcher.WithInitialScan())
	}

	w, err := watcher.New(args[0], ingestionService, opts...)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(cmd.Context())
}
