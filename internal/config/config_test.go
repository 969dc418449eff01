package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultTestRoot, cfg.TestRoot)
	assert.Equal(t, DefaultProcessors, cfg.Processors)
	assert.Len(t, cfg.PathsToIgnore, len(DefaultPathsToIgnore))
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiertest.yaml")
	content := `root: generator/tests
work_dir: generator
interpreter: python3
processors: 3
timeout: 90s
global_timeout: 1h
fail_fast: true
skip_dirs: [__pycache__]
env:
  OPENCACHE_HOME: /opt/opencache
  A_FIRST: "1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, filepath.Join(dir, "generator/tests"), cfg.TestRoot)
	assert.Equal(t, filepath.Join(dir, "generator"), cfg.WorkDir)
	assert.Equal(t, "python3", cfg.Interpreter)
	assert.Equal(t, 3, cfg.Processors)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.GlobalTimeout)
	assert.True(t, cfg.FailFast)
	assert.Contains(t, cfg.PathsToIgnore, "__pycache__")
	assert.Equal(t, []string{"A_FIRST=1", "OPENCACHE_HOME=/opt/opencache"}, cfg.Env)
}

func TestConfig_LoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := New().LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("processors: [1"), 0644))
		assert.Error(t, New().LoadFile(path))
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRoot:        "/env/tests",
		EnvProcessors:  "6",
		EnvTimeout:     "2m",
		EnvInterpreter: "python3",
	}
	cfg := New()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "/env/tests", cfg.TestRoot)
	assert.Equal(t, 6, cfg.Processors)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "python3", cfg.Interpreter)

	bad := map[string]string{EnvProcessors: "many"}
	assert.Error(t, New().ApplyEnv(func(k string) string { return bad[k] }))
}

func TestConfig_ApplyFlagsOverride(t *testing.T) {
	cfg := New()
	cfg.TestRoot = "/from/file"
	cfg.Processors = 2

	cfg.Apply(Flags{TestRoot: "/from/flag", FailFast: true})

	assert.Equal(t, "/from/flag", cfg.TestRoot)
	assert.Equal(t, 2, cfg.Processors, "zero flag keeps the lower layer")
	assert.True(t, cfg.FailFast)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiertest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: from-file\nprocessors: 2\n"), 0644))
	t.Setenv(EnvProcessors, "5")

	cfg, err := Load(Flags{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "from-file"), cfg.TestRoot)
	assert.Equal(t, 5, cfg.Processors)

	cfg, err = Load(Flags{ConfigFile: path, TestRoot: "/flag/root", Processors: 8})
	require.NoError(t, err)
	assert.Equal(t, "/flag/root", cfg.TestRoot)
	assert.Equal(t, 8, cfg.Processors)
}

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_DotEnv(t *testing.T) {
	writeConfig := func(t *testing.T, dotenv string) string {
		t.Helper()
		dir := t.TempDir()
		path := filepath.Join(dir, "tiertest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("processors: 2\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte(dotenv), 0644))
		return path
	}

	t.Run("dotenv overrides the config file", func(t *testing.T) {
		unsetEnv(t, EnvProcessors)
		cfg, err := Load(Flags{ConfigFile: writeConfig(t, EnvProcessors+"=3\n")})
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Processors)
	})

	t.Run("process env wins over dotenv", func(t *testing.T) {
		t.Setenv(EnvProcessors, "5")
		cfg, err := Load(Flags{ConfigFile: writeConfig(t, EnvProcessors+"=3\n")})
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Processors)
	})

	t.Run("malformed dotenv is an error", func(t *testing.T) {
		unsetEnv(t, EnvProcessors)
		_, err := Load(Flags{ConfigFile: writeConfig(t, "TIERTEST_INTERPRETER=\"python3\n")})
		assert.Error(t, err)
	})

	t.Run("missing dotenv is fine", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tiertest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("processors: 2\n"), 0644))
		unsetEnv(t, EnvProcessors)
		cfg, err := Load(Flags{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Processors)
	})
}

func TestLoad_ExplicitConfigMustExist(t *testing.T) {
	_, err := Load(Flags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty root", mutate: func(c *Config) { c.TestRoot = "" }},
		{name: "zero processors", mutate: func(c *Config) { c.Processors = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_TempDirs(t *testing.T) {
	cfg := New()
	cfg.TempDir = "/scratch"

	assert.Equal(t, "/scratch/tiertest-abc", cfg.GetRunTempDir("abc"))
	assert.Equal(t, "/scratch/tiertest-abc/worker_2", cfg.GetWorkerTempDir("abc", 2))
}
