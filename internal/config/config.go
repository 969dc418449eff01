package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Directory scanned for tests. Fixed once the command starts.
	TestRoot string

	// Execution settings
	WorkDir       string
	Interpreter   string
	Processors    int
	Timeout       time.Duration
	GlobalTimeout time.Duration
	FailFast      bool

	// Scratch space handed to each worker
	TempDir  string
	KeepTemp bool

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Extra KEY=VALUE pairs added to every unit's environment
	Env []string

	Verbose bool

	// Command flags
	Flags Flags
}

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

// fileConfig mirrors the YAML config file
type fileConfig struct {
	Root          string            `yaml:"root"`
	WorkDir       string            `yaml:"work_dir"`
	Interpreter   string            `yaml:"interpreter"`
	Processors    int               `yaml:"processors"`
	Timeout       time.Duration     `yaml:"timeout"`
	GlobalTimeout time.Duration     `yaml:"global_timeout"`
	FailFast      bool              `yaml:"fail_fast"`
	KeepTemp      bool              `yaml:"keep_temp"`
	TempDir       string            `yaml:"temp_dir"`
	SkipDirs      []string          `yaml:"skip_dirs"`
	Env           map[string]string `yaml:"env"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		TestRoot:   DefaultTestRoot,
		Processors: DefaultProcessors,
		Timeout:    DefaultTimeout,
		TempDir:    os.TempDir(),
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load builds the config from defaults, the config file, the environment
// and finally the flags, each layer overriding the previous one.
func Load(flags Flags) (*Config, error) {
	cfg := New()

	path := flags.ConfigFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// .env file might not exist, that's okay - use environment variables
	envPath := filepath.Join(filepath.Dir(path), DefaultEnvFile)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.Apply(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a YAML config file into c. Relative paths in the file are
// resolved against the file's directory.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	if fc.Root != "" {
		c.TestRoot = resolve(base, fc.Root)
	}
	if fc.WorkDir != "" {
		c.WorkDir = resolve(base, fc.WorkDir)
	}
	if fc.TempDir != "" {
		c.TempDir = resolve(base, fc.TempDir)
	}
	if fc.Interpreter != "" {
		c.Interpreter = fc.Interpreter
	}
	if fc.Processors != 0 {
		c.Processors = fc.Processors
	}
	if fc.Timeout != 0 {
		c.Timeout = fc.Timeout
	}
	if fc.GlobalTimeout != 0 {
		c.GlobalTimeout = fc.GlobalTimeout
	}
	c.FailFast = c.FailFast || fc.FailFast
	c.KeepTemp = c.KeepTemp || fc.KeepTemp
	if len(fc.SkipDirs) > 0 {
		c.PathsToIgnore = append(c.PathsToIgnore, fc.SkipDirs...)
	}

	keys := make([]string, 0, len(fc.Env))
	for k := range fc.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.Env = append(c.Env, k+"="+fc.Env[k])
	}
	return nil
}

// ApplyEnv overrides c with TIERTEST_* variables read through getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvRoot); v != "" {
		c.TestRoot = v
	}
	if v := getenv(EnvInterpreter); v != "" {
		c.Interpreter = v
	}
	if v := getenv(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvProcessors, v, err)
		}
		c.Processors = n
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}

// Apply copies non-zero flags over c
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.TestRoot != "" {
		c.TestRoot = flags.TestRoot
	}
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.GlobalTimeout > 0 {
		c.GlobalTimeout = flags.GlobalTimeout
	}
	if flags.Interpreter != "" {
		c.Interpreter = flags.Interpreter
	}
	c.FailFast = c.FailFast || flags.FailFast
	c.KeepTemp = c.KeepTemp || flags.KeepTemp
	c.Verbose = c.Verbose || flags.Verbose
}

// Validate checks the config for values the runner cannot work with
func (c *Config) Validate() error {
	if c.TestRoot == "" {
		return errors.New("test root must not be empty")
	}
	if c.Processors < 1 {
		return fmt.Errorf("processors must be at least 1, got %d", c.Processors)
	}
	if c.Timeout < 0 || c.GlobalTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// GetTestRoot returns the absolute test root
func (c *Config) GetTestRoot() string {
	if abs, err := filepath.Abs(c.TestRoot); err == nil {
		return abs
	}
	return c.TestRoot
}

// GetRunTempDir returns the scratch directory of a run
func (c *Config) GetRunTempDir(runID string) string {
	return filepath.Join(c.TempDir, DefaultTempPrefix+"-"+runID)
}

// GetWorkerTempDir returns the scratch directory of one worker in a run
func (c *Config) GetWorkerTempDir(runID string, workerID int) string {
	return filepath.Join(c.GetRunTempDir(runID), fmt.Sprintf("worker_%d", workerID))
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
