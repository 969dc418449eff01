package cli

import (
	"time"

	"tiertest/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile    string
	TestRoot      string
	Processors    int
	Timeout       time.Duration
	GlobalTimeout time.Duration
	Interpreter   string
	NameFilter    string
	FailFast      bool
	KeepTemp      bool
	Inspect       bool
	Verbose       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:    f.ConfigFile,
		TestRoot:      f.TestRoot,
		Processors:    f.Processors,
		Timeout:       f.Timeout,
		GlobalTimeout: f.GlobalTimeout,
		Interpreter:   f.Interpreter,
		NameFilter:    f.NameFilter,
		FailFast:      f.FailFast,
		KeepTemp:      f.KeepTemp,
		Inspect:       f.Inspect,
		Verbose:       f.Verbose,
	}
}
