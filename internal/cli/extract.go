package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/gqlextract/internal/cache"
	"github.com/mvp-joe/gqlextract/internal/config"
	"github.com/mvp-joe/gqlextract/internal/scan"
)

var (
	extractWatch    bool
	extractProgress bool
	extractPretty   bool
	extractAll      bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract GraphQL fragments from files and directories",
	Long: `Extract GraphQL fragments and print one JSON result per file.

Directories are walked using the include and ignore globs from the project
configuration; files named explicitly are always extracted. Without arguments
the current directory is scanned.

Examples:
  gqlextract extract
  gqlextract extract src/ schema.graphql --pretty
  gqlextract extract --watch`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVarP(&extractWatch, "watch", "w", false, "re-extract files as they change")
	extractCmd.Flags().BoolVar(&extractProgress, "progress", false, "show a progress bar on stderr")
	extractCmd.Flags().BoolVar(&extractPretty, "pretty", false, "indent JSON output")
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "include files without fragments")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	if len(args) == 0 {
		args = []string{"."}
	}
	if extractWatch && len(args) != 1 {
		return fmt.Errorf("--watch takes a single directory, got %d paths", len(args))
	}

	paths, err := expandPaths(cfg, args)
	if err != nil {
		return err
	}
	logger.Debug().Int("files", len(paths)).Msg("discovered files")

	var progress scan.ProgressReporter
	if extractProgress {
		progress = NewCLIProgressReporter()
	}

	extractor := cfg.NewExtractor(logger)
	runner := scan.NewRunner(extractor, cfg.Scan.Workers, progress, logger)

	results, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeResults(out, results, extractPretty, extractAll); err != nil {
		return err
	}

	if extractWatch {
		return watchAndExtract(ctx, cfg, args[0], out, logger)
	}

	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// watchAndExtract streams re-extraction results until ctx is canceled.
func watchAndExtract(ctx context.Context, cfg *config.Config, root string, out io.Writer, logger zerolog.Logger) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a directory: %s", root)
	}

	discovery, err := scan.NewDiscovery(root, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("invalid path patterns: %w", err)
	}

	var extractor scan.Extractor = cfg.NewExtractor(logger)
	if cfg.Scan.CacheSize > 0 {
		cached, err := cache.New(extractor, cfg.Scan.CacheSize, logger)
		if err != nil {
			return err
		}
		defer cached.Close()
		extractor = cached
	}
	runner := scan.NewRunner(extractor, cfg.Scan.Workers, nil, logger)

	debounce := time.Duration(cfg.Scan.DebounceMS) * time.Millisecond
	watcher, err := scan.NewWatcher(discovery, runner, debounce, func(results []scan.FileResult) {
		// Removed files and files that lost their fragments must be reported.
		if err := writeResults(out, results, extractPretty, true); err != nil {
			logger.Error().Err(err).Msg("failed to write results")
		}
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	watcher.Start(ctx)
	logger.Info().Str("root", root).Msg("watching for changes (Ctrl+C to stop)")

	<-ctx.Done()
	watcher.Stop()
	return nil
}

// expandPaths turns arguments into the list of files to extract. Directories
// are walked with the configured globs; files are taken as given.
func expandPaths(cfg *config.Config, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		discovery, err := scan.NewDiscovery(arg, cfg.Paths.Include, cfg.Paths.Ignore)
		if err != nil {
			return nil, fmt.Errorf("invalid path patterns: %w", err)
		}
		found, err := discovery.Discover()
		if err != nil {
			return nil, fmt.Errorf("failed to discover files in %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// writeResults prints one JSON document per result. Results with neither
// fragments nor an error are skipped unless all is set.
func writeResults(w io.Writer, results []scan.FileResult, pretty, all bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	for _, result := range results {
		if !all && len(result.Fragments) == 0 && result.Error == "" {
			continue
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return nil
}

func countFailed(results []scan.FileResult) int {
	failed := 0
	for _, result := range results {
		if result.Error != "" {
			failed++
		}
	}
	return failed
}
