package primerplus

import (
	"reflect"
	"testing"

	"github.com/MaxwellM34/primerPlus/config"
)

// thresholds builds a Threshold tunable with the given number of levels
func thresholds(key string, importance, levelCount int) config.Tunable {
	levels := make([]config.Level, levelCount)
	for i := range levels {
		levels[i] = config.Level{Value: float64(10 * (i + 1))}
	}
	return config.Tunable{
		Key:        key,
		Importance: importance,
		Kind:       config.Threshold,
		Levels:     levels,
		Primer3Key: key,
	}
}

func doubling(importance int) float64 {
	return 2 * float64(importance)
}

func TestImportanceWeights(t *testing.T) {
	tests := []struct {
		name          string
		maxImportance int
		want          map[int]float64
	}{
		{
			"single tier",
			1,
			map[int]float64{1: 1.0},
		},
		{
			"geometric decay",
			3,
			map[int]float64{1: 1.0, 2: 0.5, 3: 0.125},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImportanceWeights(doubling, tt.maxImportance); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ImportanceWeights() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduler_Next_bounds(t *testing.T) {
	tunables := []config.Tunable{
		thresholds("A", 1, 3),
		thresholds("B", 2, 4),
		thresholds("C", 2, 2),
	}
	s := NewScheduler(tunables, doubling, 2, 0)
	levels := NewLevelMap(tunables)

	lastLevel := map[string]int{"A": 2, "B": 3, "C": 1}
	for {
		step, ok := s.Next(levels)
		if !ok {
			break
		}
		if step.Level != levels[step.Key]+1 {
			t.Fatalf("step for %s jumped from %d to %d", step.Key, levels[step.Key], step.Level)
		}
		if step.Level > lastLevel[step.Key] {
			t.Fatalf("step for %s exceeded its last level: %d > %d", step.Key, step.Level, lastLevel[step.Key])
		}
		levels[step.Key] = step.Level
	}

	// exhaustion must coincide with every tunable at its last level
	if !reflect.DeepEqual(map[string]int(levels), lastLevel) {
		t.Errorf("exhausted with levels %v, want %v", levels, lastLevel)
	}
}

func TestScheduler_stepCount(t *testing.T) {
	// X has 2 levels and Y has 3: exactly 1 + 2 = 3 steps exist
	// regardless of draw order
	tunables := []config.Tunable{
		thresholds("X", 1, 2),
		thresholds("Y", 2, 3),
	}

	for seed := int64(0); seed < 10; seed++ {
		s := NewScheduler(tunables, doubling, 2, seed)
		levels := NewLevelMap(tunables)

		steps := 0
		for {
			step, ok := s.Next(levels)
			if !ok {
				break
			}
			levels[step.Key] = step.Level
			steps++
		}

		if steps != 3 {
			t.Errorf("seed %d: got %d steps, want 3", seed, steps)
		}
	}
}

func TestScheduler_roundRobinFairness(t *testing.T) {
	// A and B share a tier: neither may be chosen twice before the
	// other has been chosen once
	tunables := []config.Tunable{
		thresholds("A", 1, 6),
		thresholds("B", 1, 6),
	}
	s := NewScheduler(tunables, doubling, 1, 0)
	levels := NewLevelMap(tunables)

	var order []string
	for {
		step, ok := s.Next(levels)
		if !ok {
			break
		}
		levels[step.Key] = step.Level
		order = append(order, step.Key)
	}

	for i := 1; i < len(order); i++ {
		if order[i] == order[i-1] {
			t.Fatalf("tunable %s starved its sibling at step %d: %v", order[i], i, order)
		}
	}
}

func TestScheduler_deterministicReplay(t *testing.T) {
	tunables := []config.Tunable{
		thresholds("A", 1, 3),
		thresholds("B", 2, 3),
		thresholds("C", 3, 4),
	}

	replay := func() []Step {
		s := NewScheduler(tunables, doubling, 3, 42)
		levels := NewLevelMap(tunables)

		var steps []Step
		for {
			step, ok := s.Next(levels)
			if !ok {
				return steps
			}
			levels[step.Key] = step.Level
			steps = append(steps, step)
		}
	}

	first, second := replay(), replay()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different relaxation sequences:\n%v\n%v", first, second)
	}
}

func TestScheduler_singleLevelTunable(t *testing.T) {
	// a tunable with one level has nothing to relax
	tunables := []config.Tunable{thresholds("A", 1, 1)}
	s := NewScheduler(tunables, doubling, 1, 0)

	if _, ok := s.Next(NewLevelMap(tunables)); ok {
		t.Error("scheduler offered a step for a fully-relaxed table")
	}
}
