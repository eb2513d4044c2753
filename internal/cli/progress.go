package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter renders batch extraction progress on stderr.
type CLIProgressReporter struct {
	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	startTime time.Time
	fragments int
	failed    int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter() *CLIProgressReporter {
	return &CLIProgressReporter{startTime: time.Now()}
}

func (c *CLIProgressReporter) OnStart(totalFiles int) {
	c.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (c *CLIProgressReporter) OnFileDone(path string, fragments int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fragments += fragments
	if err != nil {
		c.failed++
	}
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete() {
	if c.bar != nil {
		c.bar.Finish()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stderr, "✓ %d fragments in %s", c.fragments, time.Since(c.startTime).Round(time.Millisecond))
	if c.failed > 0 {
		fmt.Fprintf(os.Stderr, " (%d files failed)", c.failed)
	}
	fmt.Fprintln(os.Stderr)
}
