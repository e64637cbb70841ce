package primerplus

import (
	"math/rand"
	"sort"

	"github.com/MaxwellM34/primerPlus/config"
)

// Step is one relaxation instruction: set the tunable at Key to Level.
// The caller is responsible for writing it into the LevelMap.
type Step struct {
	Key   string
	Level int
}

// Scheduler picks which tunable to relax next when a design attempt
// fails. Low-importance tiers absorb most of the relaxation pressure
// before critical ones are touched, but every tunable stays reachable
// until its level list is spent.
//
// The Scheduler owns its random source and round-robin cursors so runs
// don't interfere with each other and tests can pin the seed.
type Scheduler struct {
	tunables map[string]config.Tunable

	// importance tier -> sorted tunable keys
	groups map[int][]string

	// tiers present, ascending
	tiers []int

	// draw weight per tier, decaying geometrically with importance
	weights map[int]float64

	// round-robin cursor per tier
	cursors map[int]int

	rng *rand.Rand
}

// NewScheduler builds a Scheduler for one design run. multiplier maps an
// importance tier to the factor by which the next tier's draw weight
// shrinks; seed fixes the draw order for reproducibility.
func NewScheduler(tunables []config.Tunable, multiplier func(int) float64, maxImportance int, seed int64) *Scheduler {
	s := &Scheduler{
		tunables: make(map[string]config.Tunable, len(tunables)),
		groups:   make(map[int][]string),
		weights:  ImportanceWeights(multiplier, maxImportance),
		cursors:  make(map[int]int),
		rng:      rand.New(rand.NewSource(seed)),
	}

	for _, t := range tunables {
		s.tunables[t.Key] = t
		s.groups[t.Importance] = append(s.groups[t.Importance], t.Key)
	}

	for importance, keys := range s.groups {
		sort.Strings(keys)
		s.tiers = append(s.tiers, importance)
		s.cursors[importance] = 0
	}
	sort.Ints(s.tiers)

	return s
}

// ImportanceWeights converts an importance multiplier into descending
// draw weights: weight(1) = 1 and weight(i+1) = weight(i) / multiplier(i)
func ImportanceWeights(multiplier func(int) float64, maxImportance int) map[int]float64 {
	weights := map[int]float64{1: 1.0}
	for importance := 1; importance < maxImportance; importance++ {
		weights[importance+1] = weights[importance] / multiplier(importance)
	}
	return weights
}

// relaxable reports whether a tunable has any unused level left
func (s *Scheduler) relaxable(key string, levels LevelMap) bool {
	return levels[key] < len(s.tunables[key].Levels)-1
}

// active reports whether any tunable in the tier is still relaxable
func (s *Scheduler) active(importance int, levels LevelMap) bool {
	for _, key := range s.groups[importance] {
		if s.relaxable(key, levels) {
			return true
		}
	}
	return false
}

// nextInGroup selects the tier's next relaxable tunable round-robin,
// advancing the tier cursor past the chosen key so siblings in the same
// tier are never starved
func (s *Scheduler) nextInGroup(importance int, levels LevelMap) (string, bool) {
	keys := s.groups[importance]
	if len(keys) == 0 {
		return "", false
	}

	start := s.cursors[importance]
	for offset := 0; offset < len(keys); offset++ {
		index := (start + offset) % len(keys)
		key := keys[index]
		if s.relaxable(key, levels) {
			s.cursors[importance] = (index + 1) % len(keys)
			return key, true
		}
	}
	return "", false
}

// Next returns the next relaxation step given the current levels, or
// ok=false once every tunable sits at its last level. It never errors:
// the scheduler only yields steps or reports exhaustion.
func (s *Scheduler) Next(levels LevelMap) (Step, bool) {
	for {
		var activeTiers []int
		totalWeight := 0.0
		for _, importance := range s.tiers {
			if s.active(importance, levels) {
				activeTiers = append(activeTiers, importance)
				totalWeight += s.weights[importance]
			}
		}
		if len(activeTiers) == 0 {
			return Step{}, false
		}

		// draw a tier with probability proportional to its weight
		roll := s.rng.Float64() * totalWeight
		chosen := activeTiers[len(activeTiers)-1]
		for _, importance := range activeTiers {
			roll -= s.weights[importance]
			if roll <= 0 {
				chosen = importance
				break
			}
		}

		key, ok := s.nextInGroup(chosen, levels)
		if !ok {
			continue // tier emptied since the active check, redraw
		}

		return Step{Key: key, Level: levels[key] + 1}, true
	}
}
