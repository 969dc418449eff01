package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tiertest/internal/domain"
)

// Viewer displays the units of a run that did not pass
type Viewer interface {
	View(result domain.RunResult) error
}

// Inspector browses failed and not-run units in an interactive TUI
type Inspector struct{}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// View opens the TUI. It returns once the user quits.
func (in *Inspector) View(result domain.RunResult) error {
	entries := inspectable(result)
	if len(entries) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, inv := range entries {
		list.AddItem(listItemText(i, inv), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" %d failed, %d not run | ↑↓ navigate, → view output, ← back, q or Ctrl+C to exit ",
			len(result.Failed()), len(result.NotRun())))

	updateDetails := func(index int) {
		if index < 0 || index >= len(entries) {
			return
		}
		inv := entries[index]
		statsView.SetText(formatStats(inv))
		detailsView.SetText(tview.Escape(inv.Output))
		detailsView.ScrollToEnd()
	}

	list.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		updateDetails(index)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		}
		return event
	})

	updateDetails(0)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// inspectable lists failed units before not-run ones
func inspectable(result domain.RunResult) []domain.Invocation {
	entries := append([]domain.Invocation{}, result.Failed()...)
	return append(entries, result.NotRun()...)
}

func listItemText(index int, inv domain.Invocation) string {
	mark := "[red]✗"
	if inv.Status == domain.StatusNotRun {
		mark = "[gray]-"
	}
	return fmt.Sprintf("%s [yellow]%d.[white] %s", mark, index+1, tview.Escape(filepath.Base(inv.File.Path)))
}

func formatStats(inv domain.Invocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[cyan]path:[white] [yellow]%s[white]\n", tview.Escape(inv.File.Path))
	fmt.Fprintf(&b, "[cyan]tier:[white] %s  [cyan]status:[white] %s  [cyan]exit:[white] %d  [cyan]duration:[white] %s\n",
		inv.Tier(), inv.Status, inv.ExitCode, inv.Duration.Round(time.Millisecond))
	if inv.Err != nil {
		fmt.Fprintf(&b, "[cyan]reason:[white] [red]%s[white]", tview.Escape(inv.Err.Error()))
	}
	return b.String()
}
