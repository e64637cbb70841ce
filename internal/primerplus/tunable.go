// Package primerplus designs qPCR primer/probe trios by driving primer3
// through progressively relaxed constraint sets, then gating, ranking
// and quantile-scoring the candidates it returns.
package primerplus

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/MaxwellM34/primerPlus/config"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

// LevelMap tracks each tunable's current relaxation level. Indexes only
// ever move up, one step at a time, and only the design loop writes them.
type LevelMap map[string]int

// NewLevelMap returns a LevelMap with every tunable at its strictest level
func NewLevelMap(tunables []config.Tunable) LevelMap {
	levels := make(LevelMap, len(tunables))
	for _, t := range tunables {
		levels[t.Key] = 0
	}
	return levels
}

// Summary renders a stable text summary of the current tunable levels,
// one line per tunable in key order
func (l LevelMap) Summary(tunables []config.Tunable) []string {
	byKey := make(map[string]config.Tunable, len(tunables))
	keys := make([]string, 0, len(tunables))
	for _, t := range tunables {
		byKey[t.Key] = t
		keys = append(keys, t.Key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		index := l[key]
		lines = append(lines, fmt.Sprintf("- %s: level %d of %d: %s", key, index, len(byKey[key].Levels)-1, levelText(byKey[key], index)))
	}
	return lines
}

// levelText formats one tunable level for the summary
func levelText(t config.Tunable, index int) string {
	if index < 0 || index >= len(t.Levels) {
		return "?"
	}

	level := t.Levels[index]
	switch t.Kind {
	case config.Threshold:
		return fmt.Sprintf("<= %v", level.Value)
	case config.ProductSizeRange:
		return fmt.Sprintf("%v", level.Ranges)
	case config.TmWindow:
		return fmt.Sprintf("min %v, opt %v, max %v, diff %v", level.Min, level.Opt, level.Max, level.Diff)
	default:
		return fmt.Sprintf("min %v, opt %v, max %v", level.Min, level.Opt, level.Max)
	}
}
