package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiertest/internal/config"
	"tiertest/internal/domain"
)

func newTestFormatter(t *testing.T) (*Formatter, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	cfg := config.New()
	cfg.TestRoot = "/repo/tests"
	var buf bytes.Buffer
	return NewFormatter(cfg, &buf), &buf
}

func TestFormatter_PrintSummary_AllPassed(t *testing.T) {
	f, buf := newTestFormatter(t)

	f.PrintSummary(domain.RunResult{
		RunID:     "run-1",
		Selection: domain.SelectAll,
		Workers:   1,
		Duration:  1500 * time.Millisecond,
		Invocations: []domain.Invocation{
			{File: domain.TestFile{Path: "/repo/tests/000_fmt_test"}, Status: domain.StatusPassed},
			{File: domain.TestFile{Path: "/repo/tests/011_sim_test"}, Status: domain.StatusPassed},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "All 2 test(s) passed")
	assert.Contains(t, out, "no tests", "verify tier had no units")
	assert.Contains(t, out, "run-1")
}

func TestFormatter_PrintSummary_ListsEveryProblem(t *testing.T) {
	f, buf := newTestFormatter(t)

	f.PrintSummary(domain.RunResult{
		Selection: domain.SelectAll,
		Invocations: []domain.Invocation{
			{File: domain.TestFile{Path: "/repo/tests/000_fmt_test"}, Status: domain.StatusPassed},
			{
				File:   domain.TestFile{Path: "/repo/tests/sub/011_sim_test"},
				Status: domain.StatusFailed,
				Err:    &domain.UnitFailure{Path: "/repo/tests/sub/011_sim_test", ExitCode: 1},
				Output: strings.Repeat("noise\n", 20) + "AssertionError: read mismatch\n",
			},
			{
				File:   domain.TestFile{Path: "/elsewhere/03_verify_test"},
				Status: domain.StatusFailed,
				Err:    domain.ErrTimeout,
			},
			{
				File:   domain.TestFile{Path: "/repo/tests/04_late_test"},
				Status: domain.StatusNotRun,
				Err:    errors.New("not started"),
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "2 test(s) failed")
	assert.Contains(t, out, "[sim] sub/011_sim_test")
	assert.Contains(t, out, "AssertionError: read mismatch")
	assert.Equal(t, outputTail, strings.Count(out, "noise")+1, "only the tail of the output is shown")
	assert.Contains(t, out, "[verify] /elsewhere/03_verify_test (timed out)")
	assert.Contains(t, out, "1 test(s) not run")
	assert.Contains(t, out, "[verify] 04_late_test")
}

func TestFormatter_PrintTestList(t *testing.T) {
	f, buf := newTestFormatter(t)

	f.PrintTestList([]domain.Unit{
		domain.NewUnit("/repo/tests/03_b"),
		domain.NewUnit("/repo/tests/000_a"),
		domain.NewUnit("/repo/tests/02_c"),
	})

	out := buf.String()
	assert.Contains(t, out, "Found 3 test file(s)")
	assert.Contains(t, out, "format (1)")
	assert.Contains(t, out, "verify (2)")
	assert.NotContains(t, out, "sim (")
	assert.Less(t, strings.Index(out, "format"), strings.Index(out, "verify"))
	assert.Contains(t, out, "├── 03_b")
	assert.Contains(t, out, "└── 02_c")
}

func TestFormatter_RelPath_SymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	target := filepath.Join(t.TempDir(), "tests")
	require.NoError(t, os.MkdirAll(target, 0755))
	link := filepath.Join(t.TempDir(), "tests-link")
	require.NoError(t, os.Symlink(target, link))
	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)

	f, _ := newTestFormatter(t)
	f.config.TestRoot = link

	assert.Equal(t, filepath.Join("sub", "011_sim_test"), f.relPath(filepath.Join(resolved, "sub", "011_sim_test")))
	assert.Equal(t, "/elsewhere/02_x", f.relPath("/elsewhere/02_x"))
}

func TestLineProgress(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	p := NewLineProgress(&buf, 2)
	p.Update(domain.Invocation{File: domain.TestFile{Path: "/t/011_sim_test"}, Status: domain.StatusFailed}, 0, 1)
	p.Finish()

	assert.Contains(t, buf.String(), "[1/2] FAIL sim")
	assert.Contains(t, buf.String(), "011_sim_test")
}

func TestInspectable(t *testing.T) {
	result := domain.RunResult{Invocations: []domain.Invocation{
		{File: domain.TestFile{Path: "/t/02_a"}, Status: domain.StatusNotRun},
		{File: domain.TestFile{Path: "/t/00_b"}, Status: domain.StatusPassed},
		{File: domain.TestFile{Path: "/t/01_c"}, Status: domain.StatusFailed, Err: domain.ErrCanceled},
	}}

	entries := inspectable(result)
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "/t/01_c", entries[0].File.Path)
		assert.Equal(t, "/t/02_a", entries[1].File.Path)
	}
	assert.Contains(t, formatStats(entries[0]), "canceled")
	assert.Contains(t, listItemText(1, entries[1]), "02_a")
}
