package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tiertest/internal/domain"
	"tiertest/internal/tier"
)

// FilesystemError means the test root could not be read. It aborts
// discovery for the whole run.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("test root %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Scanner scans for test files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds every file under root whose name belongs to a tier. The whole
// subtree is walked; results come back in lexical walk order.
func (s *Scanner) Scan(root string) ([]domain.TestFile, error) {
	root, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, &FilesystemError{Path: root, Err: err}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &FilesystemError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FilesystemError{Path: root, Err: fmt.Errorf("not a directory")}
	}
	// WalkDir does not descend into a symlinked root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	var files []domain.TestFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := tier.Classify(d.Name()); !ok {
			return nil
		}

		// Symlinks to directories are not descended. A dangling link is
		// kept so the runner reports it as a failure.
		if d.Type()&fs.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				return nil
			}
		}

		files = append(files, domain.TestFile{Path: path})
		return nil
	})
	if err != nil {
		return nil, &FilesystemError{Path: root, Err: err}
	}

	return files, nil
}

// Discover resolves a selection to the units it covers
func (s *Scanner) Discover(root string, sel domain.Selection) ([]domain.Unit, error) {
	files, err := s.Scan(root)
	if err != nil {
		return nil, err
	}

	units := make([]domain.Unit, 0, len(files))
	for _, f := range files {
		if sel.Includes(f.Tier()) {
			units = append(units, domain.NewUnit(f.Path))
		}
	}
	return units, nil
}
