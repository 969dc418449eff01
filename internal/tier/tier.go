package tier

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Tier groups test files by how expensive they are to run.
// Tiers are ordered: Format < Sim < Verify.
type Tier int

const (
	// Format covers formatting and lint checks (prefix 00).
	Format Tier = iota
	// Sim covers simulation tests (prefix 01).
	Sim
	// Verify covers synthesis and verification tests (prefixes 02-04).
	Verify
)

// All lists every tier in ascending order.
var All = []Tier{Format, Sim, Verify}

func (t Tier) String() string {
	switch t {
	case Format:
		return "format"
	case Sim:
		return "sim"
	case Verify:
		return "verify"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t >= Format && t <= Verify
}

// Parse converts a tier name into a Tier.
func Parse(s string) (Tier, error) {
	for _, t := range All {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// Rule maps a set of filename prefixes to a tier.
type Rule struct {
	Prefixes []string
	Tier     Tier
}

// Rules is evaluated in order against a file's base name. The prefix sets
// are disjoint, so at most one rule can match.
var Rules = []Rule{
	{Prefixes: []string{"00"}, Tier: Format},
	{Prefixes: []string{"01"}, Tier: Sim},
	{Prefixes: []string{"02", "03", "04"}, Tier: Verify},
}

// Classify returns the tier of a base file name. Matching is a
// case-sensitive prefix match; anything after the prefix is ignored.
func Classify(name string) (Tier, bool) {
	for _, rule := range Rules {
		for _, prefix := range rule.Prefixes {
			if strings.HasPrefix(name, prefix) {
				return rule.Tier, true
			}
		}
	}
	return 0, false
}

// Of classifies a path by its base name.
func Of(path string) (Tier, bool) {
	return Classify(filepath.Base(path))
}

// Partition groups paths by tier, keeping their relative order.
// Paths that match no rule are dropped.
func Partition(paths []string) map[Tier][]string {
	groups := make(map[Tier][]string, len(All))
	for _, p := range paths {
		t, ok := Of(p)
		if !ok {
			continue
		}
		groups[t] = append(groups[t], p)
	}
	return groups
}
