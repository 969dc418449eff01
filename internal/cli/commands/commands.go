package commands

import (
	"fmt"
	"io"
	"os"

	"tiertest/internal/cli"
	"tiertest/internal/config"
	"tiertest/internal/ctxlog"
	"tiertest/internal/discovery"
	"tiertest/internal/domain"
	"tiertest/internal/execution"
	"tiertest/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run  *RunCommand
	List *ListCommand
}

// NewCommands creates all commands with dependencies. Output goes to out.
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	// Initialize dependencies
	filter := discovery.NewFilter()
	runner := execution.NewRunner(cfg)
	scheduler := execution.NewTierScheduler()
	executor := execution.NewWorkerPool(cfg, runner, scheduler)
	formatter := ui.NewFormatter(cfg, out)
	inspector := ui.NewInspector()

	return &Commands{
		Run:  NewRunCommand(cfg, filter, executor, formatter, inspector),
		List: NewListCommand(cfg, filter, formatter),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to a config file (default "+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&flags.TestRoot, "root", "r", "", "Directory to scan for tests (default "+config.DefaultTestRoot+")")
	rootCmd.PersistentFlags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*_random_test.py' or '*nway*')")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log unit lifecycle events to stderr")

	// loadConfig runs after flag parsing and replaces the defaults in place
	// so every dependency holding cfg sees the final values.
	loadConfig := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), ctxlog.New(os.Stderr, cfg.Verbose)))
		return nil
	}

	addRunFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of tests to run at once (default 1)")
		cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Kill a test that runs longer than this (0 disables)")
		cmd.Flags().DurationVar(&flags.GlobalTimeout, "global-timeout", 0, "Stop the whole run after this long (0 disables)")
		cmd.Flags().StringVar(&flags.Interpreter, "interpreter", "", "Program used to run each test file, e.g. python3 (default: run the file directly)")
		cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop starting tests after the first failure")
		cmd.Flags().BoolVarP(&flags.KeepTemp, "keep-temp", "k", false, "Keep each worker's scratch directory after the run")
		cmd.Flags().BoolVar(&flags.Inspect, "inspect", false, "Open the failure inspector when the run has failures")
	}

	// Run command
	runCmd := &cobra.Command{
		Use:       "run [all|format|sim|verify]",
		Short:     "Run a selection of tests",
		Long:      "Discover the tests of the selected tier (default all) and run each one as its own process",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: selectionNames(),
		RunE:      c.Run.Execute,
		PreRunE:   loadConfig,
	}
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)

	// One command per selection
	shorts := map[domain.Selection]string{
		domain.SelectAll:    "Run every tier: format, then sim, then verify",
		domain.SelectFormat: "Run the format tier (files starting with 00)",
		domain.SelectSim:    "Run the simulation tier (files starting with 01)",
		domain.SelectVerify: "Run the verification tier (files starting with 02, 03 or 04)",
	}
	for _, sel := range domain.Selections {
		selCmd := &cobra.Command{
			Use:     string(sel),
			Short:   shorts[sel],
			Args:    cobra.NoArgs,
			RunE:    c.Run.For(sel),
			PreRunE: loadConfig,
		}
		addRunFlags(selCmd)
		rootCmd.AddCommand(selCmd)
	}

	// List command
	listCmd := &cobra.Command{
		Use:       "list [all|format|sim|verify]",
		Short:     "List discovered tests",
		Long:      "Scan the test root and list tests by tier without running them",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: selectionNames(),
		RunE:      c.List.Execute,
		PreRunE:   loadConfig,
	}
	rootCmd.AddCommand(listCmd)
}

func selectionNames() []string {
	names := make([]string, 0, len(domain.Selections))
	for _, sel := range domain.Selections {
		names = append(names, string(sel))
	}
	return names
}

// selectionArg reads an optional selection argument
func selectionArg(args []string) (domain.Selection, error) {
	if len(args) == 0 {
		return domain.SelectAll, nil
	}
	sel, err := domain.ParseSelection(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid selection: %w", err)
	}
	return sel, nil
}
