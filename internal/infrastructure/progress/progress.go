// Package progress provides the pluggable progress-reporting capability used
// by bulk evaluation.  Three interchangeable implementations satisfy the same
// contract: Nop (silent), Terminal (in-place single-line bar), and Rich
// (bar with percentage and ETA).  All reporters accept write-through messages
// so that incidental output from descriptor code can be surfaced without
// corrupting an in-place display.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Reporter is the progress contract consumed by the bulk driver.
type Reporter interface {
	// Start announces the total number of work items.
	Start(total int)

	// Advance marks one item complete.
	Advance()

	// Write surfaces a message through the reporter without corrupting the
	// display.  Used to forward output captured from descriptor code.
	Write(msg string)

	// Finish completes the display.  Must be called exactly once.
	Finish()
}

// Options configures reporter construction.
type Options struct {
	// Mode selects the implementation: "quiet", "terminal", or "rich".
	Mode string

	// Out receives rendered output; defaults to os.Stderr handling is left
	// to the caller since the engine writes result tables to stdout.
	Out io.Writer

	// RefreshInterval throttles in-place redraws; zero disables throttling.
	RefreshInterval time.Duration
}

// New constructs the reporter named by opts.Mode.  Unknown modes fall back
// to the silent reporter.
func New(opts Options) Reporter {
	if opts.Out == nil || opts.Mode == "" || opts.Mode == "quiet" {
		return Nop{}
	}
	switch opts.Mode {
	case "terminal":
		return newTerminal(opts.Out, opts.RefreshInterval, false)
	case "rich":
		return newTerminal(opts.Out, opts.RefreshInterval, true)
	default:
		return Nop{}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Nop reporter
// ─────────────────────────────────────────────────────────────────────────────

// Nop discards all progress events.  Write-through messages are dropped too:
// quiet mode means quiet.
type Nop struct{}

func (Nop) Start(int)     {}
func (Nop) Advance()      {}
func (Nop) Write(string)  {}
func (Nop) Finish()       {}

// ─────────────────────────────────────────────────────────────────────────────
// Terminal reporter
// ─────────────────────────────────────────────────────────────────────────────

const barWidth = 30

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	etaStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// terminal renders an in-place single-line progress bar.  With rich set it
// adds a percentage and an ETA estimate.  Safe for concurrent use; parallel
// workers advance it from multiple goroutines.
type terminal struct {
	mu sync.Mutex

	out     io.Writer
	rich    bool
	refresh time.Duration

	total      int
	done       int
	started    time.Time
	lastRender time.Time
	finished   bool
}

func newTerminal(out io.Writer, refresh time.Duration, rich bool) *terminal {
	return &terminal{out: out, refresh: refresh, rich: rich}
}

func (t *terminal) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
	t.done = 0
	t.started = time.Now()
	t.render(true)
}

func (t *terminal) Advance() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	t.render(false)
}

func (t *terminal) Write(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Clear the bar line, emit the message on its own line, redraw.
	fmt.Fprint(t.out, "\r\033[K")
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(t.out, msg)
	t.render(true)
}

func (t *terminal) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.finished = true
	t.render(true)
	fmt.Fprintln(t.out)
}

// render redraws the bar in place.  Redraws are throttled by the refresh
// interval unless force is set or the run is complete.
func (t *terminal) render(force bool) {
	now := time.Now()
	if !force && t.done < t.total && t.refresh > 0 && now.Sub(t.lastRender) < t.refresh {
		return
	}
	t.lastRender = now

	filled := 0
	if t.total > 0 {
		filled = t.done * barWidth / t.total
		if filled > barWidth {
			filled = barWidth
		}
	}

	var b strings.Builder
	b.WriteString("\r\033[K")
	b.WriteString(barFilledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(countStyle.Render(fmt.Sprintf(" %d/%d", t.done, t.total)))

	if t.rich && t.total > 0 {
		pct := float64(t.done) / float64(t.total) * 100
		b.WriteString(countStyle.Render(fmt.Sprintf(" %5.1f%%", pct)))
		if t.done > 0 && t.done < t.total {
			elapsed := now.Sub(t.started)
			remaining := time.Duration(float64(elapsed) / float64(t.done) * float64(t.total-t.done))
			b.WriteString(etaStyle.Render(fmt.Sprintf(" eta %s", remaining.Round(time.Second))))
		}
	}

	fmt.Fprint(t.out, b.String())
}
