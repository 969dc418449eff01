package domain

import (
	"time"

	"tiertest/internal/tier"
)

// Status is the lifecycle state of a unit within one run
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
	// StatusNotRun marks units that were never started because the run was
	// cancelled or stopped early.
	StatusNotRun
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusNotRun:
		return "not run"
	default:
		return "unknown"
	}
}

// Invocation represents one execution of a unit
type Invocation struct {
	File     TestFile
	Status   Status
	ExitCode int           // -1 when the process never exited normally
	Duration time.Duration // Time taken to execute
	Output   string        // Combined stdout and stderr
	Err      error         // Failure reason, nil when passed
	WorkerID int
}

// Passed reports whether the unit exited with status 0
func (i Invocation) Passed() bool {
	return i.Status == StatusPassed
}

// Tier returns the tier of the invoked file
func (i Invocation) Tier() tier.Tier {
	return i.File.Tier()
}

// TierResult aggregates the invocations of a single tier
type TierResult struct {
	Tier        tier.Tier
	Invocations []Invocation
}

// Passed is true iff every unit of the tier passed
func (r TierResult) Passed() bool {
	for _, inv := range r.Invocations {
		if !inv.Passed() {
			return false
		}
	}
	return true
}

// RunResult is the outcome of running a selection
type RunResult struct {
	RunID       string
	Selection   Selection
	Invocations []Invocation
	Duration    time.Duration
	Workers     int
}

// Passed is true iff every attempted unit passed and none were skipped
func (r RunResult) Passed() bool {
	for _, inv := range r.Invocations {
		if !inv.Passed() {
			return false
		}
	}
	return true
}

// Failed returns the invocations that ran and did not pass
func (r RunResult) Failed() []Invocation {
	return r.filter(StatusFailed)
}

// NotRun returns the units that were never started
func (r RunResult) NotRun() []Invocation {
	return r.filter(StatusNotRun)
}

// PassedCount returns the number of passing units
func (r RunResult) PassedCount() int {
	return len(r.filter(StatusPassed))
}

// Tiers splits the run into per-tier results, in tier order. Tiers of the
// selection with no units are included and count as passed.
func (r RunResult) Tiers() []TierResult {
	byTier := make(map[tier.Tier][]Invocation)
	for _, inv := range r.Invocations {
		byTier[inv.Tier()] = append(byTier[inv.Tier()], inv)
	}

	tiers := r.Selection.Tiers()
	if len(tiers) == 0 {
		tiers = tier.All
	}
	results := make([]TierResult, 0, len(tiers))
	for _, t := range tiers {
		results = append(results, TierResult{Tier: t, Invocations: byTier[t]})
	}
	return results
}

func (r RunResult) filter(status Status) []Invocation {
	var out []Invocation
	for _, inv := range r.Invocations {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return out
}
