package scan

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// Extractor is the subset of extract.Extractor the runner needs.
type Extractor interface {
	Extract(ctx context.Context, text, identity string) ([]document.Fragment, error)
}

// FileResult is the extraction outcome for one file. A failing file does
// not abort the batch; its error is recorded instead.
type FileResult struct {
	Path      string              `json:"path"`
	Fragments []document.Fragment `json:"fragments"`
	Error     string              `json:"error,omitempty"`
}

// ProgressReporter receives batch progress callbacks. OnFileDone may be
// called from several goroutines at once.
type ProgressReporter interface {
	OnStart(totalFiles int)
	OnFileDone(path string, fragments int, err error)
	OnComplete()
}

// NoOpProgressReporter discards progress callbacks.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnStart(int) {}
func (NoOpProgressReporter) OnFileDone(string, int, error) {}
func (NoOpProgressReporter) OnComplete() {}

// Runner extracts fragments from many files concurrently.
type Runner struct {
	extractor Extractor
	workers   int
	progress  ProgressReporter
	logger    zerolog.Logger
}

// NewRunner creates a Runner. workers below 1 are treated as 1 and a nil
// progress reporter disables reporting.
func NewRunner(extractor Extractor, workers int, progress ProgressReporter, logger zerolog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	return &Runner{
		extractor: extractor,
		workers:   workers,
		progress:  progress,
		logger:    logger,
	}
}

// Run extracts every path and returns results in the order of paths. It only
// returns an error when ctx is canceled.
func (r *Runner) Run(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	r.progress.OnStart(len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.ExtractFile(gctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.progress.OnComplete()
	return results, nil
}

// ExtractFile reads and extracts a single file.
func (r *Runner) ExtractFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path, Fragments: []document.Fragment{}}

	err := func() error {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		fragments, err := r.extractor.Extract(ctx, string(content), path)
		if err != nil {
			return err
		}
		result.Fragments = fragments
		return nil
	}()

	if err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("extraction failed")
		result.Error = err.Error()
	}
	r.progress.OnFileDone(path, len(result.Fragments), err)
	return result
}
