package execution

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"tiertest/internal/config"
	"tiertest/internal/ctxlog"
	"tiertest/internal/domain"
)

// WorkerPool manages a pool of workers for parallel test execution
type WorkerPool struct {
	config    *config.Config
	runner    *Runner
	scheduler Scheduler
	progress  Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, scheduler Scheduler) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
	}
}

// SetProgress sets the progress sink for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute runs every unit once. Up to config.Processors units run at the
// same time; with one processor they run strictly in schedule order.
//
// With FailFast no new unit is started after the first failure, but units
// already running are waited for. When ctx is cancelled or the global
// timeout expires, running units are killed and recorded as failed. Units
// that never started are recorded as not run.
func (wp *WorkerPool) Execute(ctx context.Context, sel domain.Selection, units []domain.Unit) domain.RunResult {
	runID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}

	result := domain.RunResult{RunID: runID, Selection: sel, Workers: workerCount}
	if len(units) == 0 {
		return result
	}

	ordered := wp.scheduler.Schedule(units)
	invocations := make([]domain.Invocation, len(ordered))
	for i, u := range ordered {
		invocations[i] = domain.Invocation{File: u.File, Status: domain.StatusPending, ExitCode: -1}
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	if wp.config.GlobalTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, wp.config.GlobalTimeout)
		defer cancel()
	}
	// stop ends scheduling without touching running units
	schedCtx, stop := context.WithCancel(runCtx)
	defer stop()

	queue := make(chan int)
	go func() {
		defer close(queue)
		for i := range ordered {
			select {
			case <-schedCtx.Done():
				return
			case queue <- i:
			}
		}
	}()

	var mu sync.Mutex
	var passed, failed int
	startTime := time.Now()
	logger.Debug("run started", "units", len(ordered), "workers", workerCount, "selection", string(sel))

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker := Worker{ID: workerID, RunID: runID}
			if wp.config.TempDir != "" {
				worker.TempDir = wp.config.GetWorkerTempDir(runID, workerID)
			}

			for idx := range queue {
				if schedCtx.Err() != nil {
					continue
				}
				inv := wp.runner.Run(runCtx, ordered[idx], worker)

				mu.Lock()
				invocations[idx] = inv
				if inv.Passed() {
					passed++
				} else {
					failed++
					if wp.config.FailFast {
						stop()
					}
				}
				if wp.progress != nil {
					wp.progress.Update(inv, passed, failed)
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	for i := range invocations {
		if invocations[i].Status == domain.StatusPending {
			invocations[i].Status = domain.StatusNotRun
			invocations[i].Err = domain.ErrNotStarted
		}
	}

	if wp.config.TempDir != "" && !wp.config.KeepTemp {
		if err := os.RemoveAll(wp.config.GetRunTempDir(runID)); err != nil {
			logger.Warn("failed to remove temp dir", "error", err)
		}
	}

	result.Invocations = invocations
	result.Duration = time.Since(startTime)
	logger.Debug("run finished", "passed", passed, "failed", failed, "duration", result.Duration)
	return result
}
