package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"tiertest/internal/domain"
	"tiertest/internal/execution"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar
func NewProgressBar(count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(_ domain.Invocation, passed, failed int) {
	_ = p.bar.Set(passed + failed)
	p.bar.Describe(describe(passed, failed))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func describe(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// LineProgress prints one line per finished unit. Used when output is not
// a terminal, e.g. in CI logs.
type LineProgress struct {
	out   io.Writer
	total int
}

// NewLineProgress creates a LineProgress writing to out
func NewLineProgress(out io.Writer, total int) *LineProgress {
	return &LineProgress{out: out, total: total}
}

// Update prints the finished unit
func (p *LineProgress) Update(inv domain.Invocation, passed, failed int) {
	mark := color.GreenString("PASS")
	if !inv.Passed() {
		mark = color.RedString("FAIL")
	}
	fmt.Fprintf(p.out, "[%d/%d] %s %-6s %s (%s)\n",
		passed+failed, p.total, mark, inv.Tier(), filepath.Base(inv.File.Path), inv.Duration.Round(time.Millisecond))
}

// Finish is a no-op
func (p *LineProgress) Finish() {}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewProgress picks a progress bar for terminals and plain lines otherwise
func NewProgress(count int) execution.Progress {
	if IsTerminal(os.Stderr) {
		return NewProgressBar(count)
	}
	return NewLineProgress(os.Stderr, count)
}
