package domain

import (
	"fmt"

	"tiertest/internal/tier"
)

// TestFile is a discovered test script
type TestFile struct {
	Path string // Absolute path to the script
}

// Tier derives the file's tier from its base name. It is recomputed on every
// call so a rename between runs is always picked up.
func (f TestFile) Tier() tier.Tier {
	t, _ := tier.Of(f.Path)
	return t
}

// Unit is a test file scheduled for execution
type Unit struct {
	File TestFile
	// Phony units have no artifact to check: they are run on every
	// invocation, whatever ran before.
	Phony bool
}

// NewUnit wraps a test file in an always-run unit of work
func NewUnit(path string) Unit {
	return Unit{File: TestFile{Path: path}, Phony: true}
}

// Selection names what a caller asked to run
type Selection string

const (
	SelectAll    Selection = "all"
	SelectFormat Selection = "format"
	SelectSim    Selection = "sim"
	SelectVerify Selection = "verify"
)

// Selections lists every valid selection
var Selections = []Selection{SelectAll, SelectFormat, SelectSim, SelectVerify}

// ParseSelection validates a selection name
func ParseSelection(s string) (Selection, error) {
	for _, sel := range Selections {
		if string(sel) == s {
			return sel, nil
		}
	}
	return "", fmt.Errorf("unknown selection %q (want one of all, format, sim, verify)", s)
}

// Tiers returns the tiers covered by the selection in ascending order
func (s Selection) Tiers() []tier.Tier {
	if s == SelectAll {
		return tier.All
	}
	t, err := tier.Parse(string(s))
	if err != nil {
		return nil
	}
	return []tier.Tier{t}
}

// Includes reports whether the selection covers t
func (s Selection) Includes(t tier.Tier) bool {
	for _, st := range s.Tiers() {
		if st == t {
			return true
		}
	}
	return false
}
