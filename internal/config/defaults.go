package config

import "time"

const (
	// DefaultTestRoot is the default directory scanned for tests
	DefaultTestRoot = "tests"
	// DefaultConfigFile is looked up in the working directory when --config is not given
	DefaultConfigFile = ".tiertest.yaml"
	// DefaultEnvFile is loaded from the config file's directory if present
	DefaultEnvFile = ".env"
	// DefaultProcessors runs units one at a time
	DefaultProcessors = 1
	// DefaultTimeout disables the per-unit time limit
	DefaultTimeout time.Duration = 0
	// DefaultTempPrefix names the per-run scratch directory
	DefaultTempPrefix = "tiertest"
)

// Environment variables read by Load and exported to units
const (
	EnvRoot        = "TIERTEST_ROOT"
	EnvProcessors  = "TIERTEST_PROCESSORS"
	EnvTimeout     = "TIERTEST_TIMEOUT"
	EnvInterpreter = "TIERTEST_INTERPRETER"
	EnvTier        = "TIERTEST_TIER"
	EnvRunID       = "TIERTEST_RUN_ID"
	EnvWorker      = "TIERTEST_WORKER"
	EnvTemp        = "TIERTEST_TEMP"
)

// DefaultPathsToIgnore are directories skipped while scanning. Empty: the
// whole subtree of the test root is searched unless configured otherwise.
var DefaultPathsToIgnore = []string{}
