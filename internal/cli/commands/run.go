package commands

import (
	"os"

	"tiertest/internal/config"
	"tiertest/internal/ctxlog"
	"tiertest/internal/discovery"
	"tiertest/internal/domain"
	"tiertest/internal/execution"
	"tiertest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command and the per-tier commands
type RunCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	executor  execution.Executor
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	executor execution.Executor,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		filter:    filter,
		executor:  executor,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the selection named by args (default all)
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	sel, err := selectionArg(args)
	if err != nil {
		return err
	}
	return rc.run(cmd, sel)
}

// For returns a RunE that always runs sel
func (rc *RunCommand) For(sel domain.Selection) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return rc.run(cmd, sel)
	}
}

func (rc *RunCommand) run(cmd *cobra.Command, sel domain.Selection) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	// Discover tests
	scanner := discovery.NewScanner(rc.config.PathsToIgnore)
	units, err := scanner.Discover(rc.config.GetTestRoot(), sel)
	if err != nil {
		return err
	}

	// Filter tests
	units = rc.filter.FilterByName(units, rc.config.Flags.NameFilter)
	logger.Debug("discovered tests", "selection", string(sel), "units", len(units), "root", rc.config.GetTestRoot())

	if len(units) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No tests to execute")
		return nil
	}

	rc.executor.SetProgress(ui.NewProgress(len(units)))

	result := rc.executor.Execute(ctx, sel, units)
	rc.formatter.PrintSummary(result)

	if result.Passed() {
		return nil
	}

	if rc.config.Flags.Inspect {
		if ui.IsTerminal(os.Stdout) {
			if err := rc.viewer.View(result); err != nil {
				logger.Warn("failure inspector", "error", err)
			}
		} else {
			logger.Warn("--inspect needs a terminal, skipping")
		}
	}
	return domain.ErrUnitsFailed
}
