// Package ui renders scan output for the terminal: status-colored result
// lines, error lines, and a single-line progress display that degrades to
// plain streaming output when stdout is not a TTY.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/lanyi1998/dirsearch/pkg/fuzzer"
)

// Color palette, HTTP-status keyed like httpx/nuclei output.
var (
	Primary = lipgloss.Color("#7D56F4")
	Muted   = lipgloss.Color("#6B7280")

	Status2xx = lipgloss.Color("#00D26A") // Green
	Status3xx = lipgloss.Color("#4D96FF") // Blue
	Status4xx = lipgloss.Color("#FFD93D") // Yellow
	Status5xx = lipgloss.Color("#FF3838") // Red

	ErrorColor = lipgloss.Color("#FF3838")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	pathStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(Muted)
	errStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
)

var (
	ttyOnce sync.Once
	ttyOK   bool
)

// StdoutIsTerminal reports whether stdout is an interactive terminal.
func StdoutIsTerminal() bool {
	ttyOnce.Do(func() {
		if os.Getenv("TERM") == "dumb" {
			return
		}
		ttyOK = term.IsTerminal(int(os.Stdout.Fd()))
	})
	return ttyOK
}

// NoColor disables all styling, for piped output or --no-color.
func NoColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func statusStyle(status int) lipgloss.Style {
	var c lipgloss.Color
	switch {
	case status >= 200 && status < 300:
		c = Status2xx
	case status >= 300 && status < 400:
		c = Status3xx
	case status >= 400 && status < 500:
		c = Status4xx
	default:
		c = Status5xx
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Printer writes scan events to a terminal. Safe for concurrent use from
// multiple workers.
type Printer struct {
	mu sync.Mutex
	w  io.Writer

	progress *progressLine
}

// NewPrinter creates a Printer writing to w (os.Stdout when nil).
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

// Banner prints the scan header.
func (p *Printer) Banner(target string, wordlistSize, threads int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", titleStyle.Render("dirsearch"), mutedStyle.Render("content discovery"))
	fmt.Fprintf(p.w, "target: %s  wordlist: %d entries  threads: %d\n\n", target, wordlistSize, threads)
}

// Match prints a confirmed hit.
func (p *Printer) Match(r *fuzzer.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearProgressLocked()

	line := fmt.Sprintf("%s  %8dB  %s",
		statusStyle(r.Status).Render(fmt.Sprintf("%3d", r.Status)),
		r.ContentLength(),
		pathStyle.Render("/"+strings.TrimLeft(r.Path, "/")))
	if redirect := r.Redirect(); redirect != "" {
		line += mutedStyle.Render("  -> " + redirect)
	}
	fmt.Fprintln(p.w, line)
}

// Error prints a probe failure.
func (p *Printer) Error(path, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearProgressLocked()
	fmt.Fprintf(p.w, "%s %s: %s\n", errStyle.Render("error"), path, message)
}

// Summary prints the end-of-scan totals.
func (p *Printer) Summary(found, requested, errors int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearProgressLocked()
	fmt.Fprintf(p.w, "\n%s %d found, %d requested, %d errors in %s\n",
		titleStyle.Render("done:"), found, requested, errors, elapsed.Round(time.Millisecond))
}

// progressLine is the redraw state for the in-place progress display.
type progressLine struct {
	limiter *rate.Limiter
	visible bool
}

// Progress redraws the single-line progress display. Redraws are throttled
// so workers can call it on every event without flooding the terminal; the
// final update (completed == total) always draws.
func (p *Printer) Progress(completed, total, found int) {
	if !StdoutIsTerminal() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.progress == nil {
		// 20 redraws/sec is plenty for a terminal
		p.progress = &progressLine{limiter: rate.NewLimiter(rate.Limit(20), 1)}
	}
	if completed < total && !p.progress.limiter.Allow() {
		return
	}

	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}
	fmt.Fprintf(p.w, "\r\033[K%s %d/%d (%.1f%%)  found: %d",
		mutedStyle.Render("scanning"), completed, total, percent, found)
	p.progress.visible = true

	if completed >= total {
		fmt.Fprintln(p.w)
		p.progress.visible = false
	}
}

// clearProgressLocked erases the progress line before printing a real line.
// Caller holds p.mu.
func (p *Printer) clearProgressLocked() {
	if p.progress != nil && p.progress.visible {
		fmt.Fprint(p.w, "\r\033[K")
		p.progress.visible = false
	}
}
