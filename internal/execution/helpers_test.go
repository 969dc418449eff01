package execution

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tiertest/internal/config"
	"tiertest/internal/domain"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts are POSIX shell")
	}
}

// script writes an executable shell script and returns its path
func script(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.TestRoot = root
	cfg.TempDir = ""
	return cfg
}

// invocationLog returns a file scripts can append their names to
func invocationLog(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invocations.log")
	cfg.Env = append(cfg.Env, "INVOCATION_LOG="+path)
	return path
}

func readLog(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Fields(string(data))
}

const logSelf = `echo "$(basename "$0")" >> "$INVOCATION_LOG"`

func unitsOf(paths ...string) []domain.Unit {
	units := make([]domain.Unit, 0, len(paths))
	for _, p := range paths {
		units = append(units, domain.NewUnit(p))
	}
	return units
}
