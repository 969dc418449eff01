package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is recorded when a unit exceeds its time limit
	ErrTimeout = errors.New("timed out")
	// ErrCanceled is recorded when the run is interrupted while a unit is running
	ErrCanceled = errors.New("canceled")
	// ErrNotStarted is recorded for units skipped after cancellation or fail-fast
	ErrNotStarted = errors.New("not started")
	// ErrUnitsFailed is returned by commands whose run did not pass
	ErrUnitsFailed = errors.New("one or more tests failed")
)

// SpawnError means the unit's process could not be started
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// UnitFailure means the unit's process exited with a non-zero status
type UnitFailure struct {
	Path     string
	ExitCode int
}

func (e *UnitFailure) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Path, e.ExitCode)
}
