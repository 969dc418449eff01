package execution

import (
	"context"

	"tiertest/internal/domain"
)

// Executor runs a selection's units and returns the run result
type Executor interface {
	Execute(ctx context.Context, sel domain.Selection, units []domain.Unit) domain.RunResult
	SetProgress(progress Progress)
}

var _ Executor = (*WorkerPool)(nil)

// Progress receives an update after every finished unit
type Progress interface {
	Update(inv domain.Invocation, passed, failed int)
	Finish()
}
