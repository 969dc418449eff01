package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tiertest/internal/config"
	"tiertest/internal/discovery"
	"tiertest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	sel, err := selectionArg(args)
	if err != nil {
		return err
	}

	scanner := discovery.NewScanner(lc.config.PathsToIgnore)
	units, err := scanner.Discover(lc.config.GetTestRoot(), sel)
	if err != nil {
		return err
	}

	// Filter tests
	units = lc.filter.FilterByName(units, lc.config.Flags.NameFilter)

	if len(units) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No tests found")
		return nil
	}

	lc.formatter.PrintTestList(units)
	return nil
}
