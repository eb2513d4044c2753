package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// ResultHandler receives the re-extraction results of one debounced batch.
type ResultHandler func(results []FileResult)

// Watcher re-extracts candidate files when they change on disk.
type Watcher struct {
	discovery    *Discovery
	runner       *Runner
	handler      ResultHandler
	logger       zerolog.Logger
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewWatcher creates a watcher over every non-ignored directory under the
// discovery root.
func NewWatcher(discovery *Discovery, runner *Runner, debounce time.Duration, handler ResultHandler, logger zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		discovery:    discovery,
		runner:       runner,
		handler:      handler,
		logger:       logger,
		watcher:      watcher,
		debounceTime: debounce,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(discovery.Root()); err != nil {
		watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	flushCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	stopTimer := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return

		case <-w.stopCh:
			stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						w.logger.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}
			changed[event.Name] = true

			stopTimer()
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case flushCh <- struct{}{}:
				default:
				}
			})

		case <-flushCh:
			w.flush(ctx, changed)
			changed = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// flush re-extracts changed files. Removed files are reported with no
// fragments so callers can drop stale entries.
func (w *Watcher) flush(ctx context.Context, changed map[string]bool) {
	if len(changed) == 0 {
		return
	}

	paths := make([]string, 0, len(changed))
	for path := range changed {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	w.logger.Debug().Int("files", len(paths)).Msg("re-extracting changed files")

	var existing []string
	var results []FileResult
	for _, path := range paths {
		if isRegularFile(path) {
			existing = append(existing, path)
		} else {
			results = append(results, FileResult{Path: path, Fragments: []document.Fragment{}})
		}
	}

	extracted, err := w.runner.Run(ctx, existing)
	if err != nil {
		return
	}
	results = append(extracted, results...)
	w.handler(results)
}

// shouldProcessEvent checks if an event should trigger re-extraction.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	relPath, err := filepath.Rel(w.discovery.Root(), event.Name)
	if err != nil {
		return false
	}
	return w.discovery.Matches(filepath.ToSlash(relPath))
}

// addDirectoriesRecursively adds all non-ignored directories to the watcher.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("error accessing path")
			return nil
		}

		if !entry.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(w.discovery.Root(), path)
		if err == nil && relPath != "." && w.discovery.ShouldIgnore(filepath.ToSlash(relPath)) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn().Err(err).Str("dir", path).Msg("failed to watch directory")
		}
		return nil
	})
}
