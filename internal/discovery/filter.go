package discovery

import (
	"path/filepath"
	"strings"

	"tiertest/internal/domain"
)

// Filter filters units by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the units whose base name matches pattern.
// Supports patterns like "*_random_test.py" or "*nway*"; a pattern without
// wildcards is matched as a substring.
func (f *Filter) FilterByName(units []domain.Unit, pattern string) []domain.Unit {
	if pattern == "" {
		return units
	}

	var filtered []domain.Unit
	for _, u := range units {
		if matchName(filepath.Base(u.File.Path), pattern) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match is anchored; fall back to matching the literal
	// pieces of a "*"-pattern in order.
	if strings.Contains(pattern, "?") {
		return false
	}
	rest := name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		found = true
	}
	return found
}
