package execution

import (
	"sort"

	"tiertest/internal/domain"
)

// Scheduler decides the order in which units are started
type Scheduler interface {
	Schedule(units []domain.Unit) []domain.Unit
}

// TierScheduler starts cheaper tiers first: format checks, then
// simulation, then verification. Within a tier units run by path.
type TierScheduler struct{}

// NewTierScheduler creates a new TierScheduler
func NewTierScheduler() *TierScheduler {
	return &TierScheduler{}
}

// Schedule returns a sorted copy of units
func (s *TierScheduler) Schedule(units []domain.Unit) []domain.Unit {
	ordered := make([]domain.Unit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].File.Tier(), ordered[j].File.Tier()
		if ti != tj {
			return ti < tj
		}
		return ordered[i].File.Path < ordered[j].File.Path
	})
	return ordered
}
