package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"tiertest/internal/config"
	"tiertest/internal/ctxlog"
	"tiertest/internal/domain"
)

// waitDelay bounds how long Wait blocks on output pipes after the unit's
// process has been killed.
const waitDelay = 5 * time.Second

// Worker identifies the slot a unit runs in
type Worker struct {
	ID      int
	RunID   string
	TempDir string // Created before the unit starts; empty disables it
}

// Runner executes a single test file as its own process
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Run starts the unit's process and waits for it. The unit is always run:
// there is no completion marker or up-to-date check, since every unit is
// phony.
func (r *Runner) Run(ctx context.Context, unit domain.Unit, w Worker) domain.Invocation {
	path := unit.File.Path
	logger := ctxlog.FromContext(ctx).With("unit", path, "tier", unit.File.Tier().String(), "worker", w.ID, "run_id", w.RunID)

	inv := domain.Invocation{
		File:     unit.File,
		Status:   domain.StatusRunning,
		ExitCode: -1,
		WorkerID: w.ID,
	}

	unitCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		unitCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	if w.TempDir != "" {
		if err := os.MkdirAll(w.TempDir, 0755); err != nil {
			return failed(inv, &domain.SpawnError{Path: path, Err: fmt.Errorf("create temp dir: %w", err)})
		}
	}

	cmd := r.command(unitCtx, path)
	cmd.Env = r.environ(unit, w)
	if r.config.WorkDir != "" {
		cmd.Dir = r.config.WorkDir
	}
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	logger.Debug("unit started")
	start := time.Now()
	if err := cmd.Start(); err != nil {
		inv.Duration = time.Since(start)
		if ctxErr := contextReason(ctx, unitCtx); ctxErr != nil {
			return failed(inv, ctxErr)
		}
		logger.Warn("unit could not be started", "error", err)
		return failed(inv, &domain.SpawnError{Path: path, Err: err})
	}
	err := cmd.Wait()
	inv.Duration = time.Since(start)
	inv.Output = output.String()
	if cmd.ProcessState != nil {
		inv.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case err == nil:
		inv.Status = domain.StatusPassed
		inv.ExitCode = 0
	case contextReason(ctx, unitCtx) != nil:
		inv = failed(inv, contextReason(ctx, unitCtx))
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			inv = failed(inv, &domain.UnitFailure{Path: path, ExitCode: inv.ExitCode})
		} else {
			inv = failed(inv, fmt.Errorf("wait %s: %w", path, err))
		}
	}

	logger.Debug("unit finished", "status", inv.Status.String(), "exit_code", inv.ExitCode, "duration", inv.Duration)
	return inv
}

func (r *Runner) command(ctx context.Context, path string) *exec.Cmd {
	// The interpreter may carry its own arguments, e.g. "python3 -u"
	if argv := strings.Fields(r.config.Interpreter); len(argv) > 0 {
		return exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	}
	return exec.CommandContext(ctx, path)
}

func (r *Runner) environ(unit domain.Unit, w Worker) []string {
	env := os.Environ()
	env = append(env,
		config.EnvRoot+"="+r.config.GetTestRoot(),
		config.EnvTier+"="+unit.File.Tier().String(),
		config.EnvRunID+"="+w.RunID,
		config.EnvWorker+"="+strconv.Itoa(w.ID),
	)
	if w.TempDir != "" {
		env = append(env, config.EnvTemp+"="+w.TempDir)
	}
	return append(env, r.config.Env...)
}

// contextReason maps a finished context to the failure recorded for the
// unit. The run context is checked first so an interrupted run is never
// reported as a per-unit timeout.
func contextReason(run, unit context.Context) error {
	switch {
	case errors.Is(run.Err(), context.DeadlineExceeded):
		return domain.ErrTimeout
	case run.Err() != nil:
		return domain.ErrCanceled
	case errors.Is(unit.Err(), context.DeadlineExceeded):
		return domain.ErrTimeout
	default:
		return nil
	}
}

func failed(inv domain.Invocation, err error) domain.Invocation {
	inv.Status = domain.StatusFailed
	inv.Err = err
	return inv
}
