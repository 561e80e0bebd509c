package progress

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Label describes what is being walked (for display).
	Label string

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable progress for a walk over stored files.
type Reporter struct {
	opts Options

	mu        sync.Mutex
	files     atomic.Int64
	bytes     atomic.Int64
	flagged   atomic.Int64
	startTime time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.mu.Lock()
	r.started = true
	r.startTime = time.Now()
	r.mu.Unlock()

	fmt.Fprintf(r.opts.Output, "[stash] Checking: %s\n", r.opts.Label)
	go r.updateLoop()
}

// Stop stops the reporter and prints the final status. It waits for the
// final line to be written.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped || !r.started {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

// FileChecked records one checked file of the given size.
func (r *Reporter) FileChecked(size int64) {
	r.files.Add(1)
	r.bytes.Add(size)
}

// FileFlagged records a checked file that failed the check.
func (r *Reporter) FileFlagged() {
	r.flagged.Add(1)
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	elapsed := time.Since(r.startTime).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	files := r.files.Load()

	fmt.Fprintf(r.opts.Output, "\r[stash] Files: %d | %s | %.0f files/s | Flagged: %d    ",
		files,
		formatBytes(r.bytes.Load()),
		float64(files)/elapsed,
		r.flagged.Load(),
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	fmt.Fprintf(r.opts.Output, "\r[stash] Files: %d | %s | Flagged: %d | Complete!    \n",
		r.files.Load(),
		formatBytes(r.bytes.Load()),
		r.flagged.Load(),
	)
	fmt.Fprintf(r.opts.Output, "[stash] Total time: %s\n", formatDuration(time.Since(r.startTime)))
}

// formatBytes formats bytes as a human-readable string using binary units.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}

	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}

	value := float64(b) / float64(div)
	suffix := []string{"KiB", "MiB", "GiB", "TiB"}[exp]
	if value == float64(int64(value)) && value >= 10 {
		return fmt.Sprintf("%d %s", int64(value), suffix)
	}
	return fmt.Sprintf("%.1f %s", value, suffix)
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// byteUnits maps suffixes to multipliers. Longer suffixes come first so
// that "KiB" is not mistaken for "B".
var byteUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"TiB", 1 << 40},
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"TB", 1000 * 1000 * 1000 * 1000},
	{"GB", 1000 * 1000 * 1000},
	{"MB", 1000 * 1000},
	{"KB", 1000},
	{"B", 1},
}

// ParseBytes parses a human-readable byte string (e.g., "256MiB" or "10MB").
// Binary suffixes (KiB, MiB, ...) are powers of 1024, SI suffixes powers
// of 1000.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)

	var multiplier int64 = 1
	for _, u := range byteUnits {
		if strings.HasSuffix(s, u.suffix) {
			multiplier = u.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid byte string: %q", s)
	}
	return int64(value * float64(multiplier)), nil
}
