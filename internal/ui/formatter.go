package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"tiertest/internal/config"
	"tiertest/internal/domain"
	"tiertest/internal/tier"
)

// outputTail is how many lines of a failed unit's output the summary shows
const outputTail = 10

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

// PrintSummary prints per-tier counts followed by every failed and not-run
// unit. No unit of the run is left out.
func (f *Formatter) PrintSummary(result domain.RunResult) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Test Execution Summary                     ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "┌──────────┬────────┬────────┬────────┬────────┬──────────────┐")
	fmt.Fprintf(f.out, "│ %-8s │ %-6s │ %-6s │ %-6s │ %-6s │ %-12s │\n", "Tier", "Units", "Passed", "Failed", "NotRun", "Result")
	fmt.Fprintln(f.out, "├──────────┼────────┼────────┼────────┼────────┼──────────────┤")
	for _, tr := range result.Tiers() {
		var passed, failed, notRun int
		for _, inv := range tr.Invocations {
			switch inv.Status {
			case domain.StatusPassed:
				passed++
			case domain.StatusFailed:
				failed++
			case domain.StatusNotRun:
				notRun++
			}
		}
		verdict := color.GreenString("%-12s", "passed")
		if !tr.Passed() {
			verdict = color.RedString("%-12s", "failed")
		} else if len(tr.Invocations) == 0 {
			verdict = color.YellowString("%-12s", "no tests")
		}
		fmt.Fprintf(f.out, "│ %-8s │ %-6d │ %-6d │ %-6d │ %-6d │ %s │\n",
			tr.Tier, len(tr.Invocations), passed, failed, notRun, verdict)
	}
	fmt.Fprintln(f.out, "└──────────┴────────┴────────┴────────┴────────┴──────────────┘")

	fmt.Fprintf(f.out, "Duration: %s  Workers: %d  Run: %s\n",
		result.Duration.Round(time.Millisecond), result.Workers, result.RunID)
	fmt.Fprintln(f.out)

	failed := result.Failed()
	notRun := result.NotRun()
	if len(failed) == 0 && len(notRun) == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All %d test(s) passed!", len(result.Invocations)))
		return
	}

	if len(failed) > 0 {
		fmt.Fprintln(f.out, color.RedString("✗ %d test(s) failed:", len(failed)))
		for _, inv := range failed {
			fmt.Fprintf(f.out, "  %s %s %s\n",
				color.YellowString("[%s]", inv.Tier()), f.relPath(inv.File.Path), color.RedString("(%v)", inv.Err))
			for _, line := range tail(inv.Output, outputTail) {
				fmt.Fprintf(f.out, "      %s\n", line)
			}
		}
	}

	if len(notRun) > 0 {
		fmt.Fprintln(f.out, color.YellowString("- %d test(s) not run:", len(notRun)))
		for _, inv := range notRun {
			fmt.Fprintf(f.out, "  %s %s\n", color.YellowString("[%s]", inv.Tier()), f.relPath(inv.File.Path))
		}
	}
}

// PrintTestList prints discovered units grouped by tier
func (f *Formatter) PrintTestList(units []domain.Unit) {
	byTier := make(map[tier.Tier][]domain.Unit)
	for _, u := range units {
		byTier[u.File.Tier()] = append(byTier[u.File.Tier()], u)
	}

	fmt.Fprintln(f.out, color.GreenString("Found %d test file(s):", len(units)))
	fmt.Fprintln(f.out)
	for _, t := range tier.All {
		group := byTier[t]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(f.out, color.CyanString("%s (%d)", t, len(group)))
		for i, u := range group {
			connector := "├── "
			if i == len(group)-1 {
				connector = "└── "
			}
			fmt.Fprintf(f.out, "%s%s\n", connector, f.relPath(u.File.Path))
		}
	}
}

// relPath returns path relative to the test root for cleaner display
func (f *Formatter) relPath(path string) string {
	root := f.config.GetTestRoot()
	// Discovered paths are symlink-resolved
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func tail(output string, n int) []string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return nil
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
