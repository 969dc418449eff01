package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tiertest/internal/cli"
	"tiertest/internal/cli/commands"
	"tiertest/internal/config"
	"tiertest/internal/domain"

	"github.com/spf13/cobra"
)

var version = "dev"

// Exit codes
const (
	exitFailed = 1 // at least one test failed or did not run
	exitError  = 2 // the harness itself could not run
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "tiertest",
		Short:         "Tiered test runner",
		Long:          `Discover test scripts by their numeric prefix (00 format, 01 sim, 02-04 verify) and run each tier, or all of them, as independent processes.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, os.Stdout)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, domain.ErrUnitsFailed) {
			os.Exit(exitFailed)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}
