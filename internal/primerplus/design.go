package primerplus

import (
	"fmt"
	"sort"
	"time"

	"github.com/MaxwellM34/primerPlus/config"
	"github.com/google/uuid"
)

// StatusNoSolution marks a run that exhausted every tunable level
// without producing a passing candidate
const StatusNoSolution = "no_solution"

// Output is the persisted design-run record: the full candidate batch
// on success, or an empty batch plus provenance when the tunables ran out
type Output struct {
	// unique id of this design run
	RunID string `json:"runId"`

	// local time the run finished
	Time string `json:"time"`

	// index of the final attempt (zero-based)
	Attempt int `json:"attempt"`

	// the tunable relaxed before the final attempt, or "none"
	RelaxedKey string `json:"relaxedKey"`

	// the level that tunable was moved to, null before any relaxation
	RelaxedLevel *int `json:"relaxedLevel"`

	// number of pairs in the final engine response
	PairCount int `json:"pairCount"`

	SequenceID string `json:"sequenceId"`
	Sequence   string `json:"sequence"`

	// index of the best passing candidate, null when none passed
	BestIndex *int `json:"bestIndex"`

	// final relaxation level per tunable
	LevelMap LevelMap `json:"levelMap"`

	// human-readable rendering of LevelMap
	LevelSummary []string `json:"levelSummary"`

	TotalAttempts int `json:"totalAttempts"`

	// every candidate that passed the Kraken rules, in engine order
	Trios []*Trio `json:"trios"`

	// set to StatusNoSolution on exhaustion
	Status string `json:"status,omitempty"`

	// attached by scoring
	Scoring *Scoring `json:"scoring,omitempty"`
}

// Designer binds the scheduler, engine adapter and candidate gate into
// the iterative design loop. It owns the LevelMap for the duration of
// one run; nothing else writes it.
type Designer struct {
	conf      *config.Config
	engine    Engine
	scheduler *Scheduler

	// log the best candidate's full records on success
	PrintBestEntries bool
}

// NewDesigner builds a Designer and a fresh per-run Scheduler from the
// configured rule table
func NewDesigner(conf *config.Config, engine Engine) *Designer {
	return &Designer{
		conf:             conf,
		engine:           engine,
		scheduler:        NewScheduler(conf.Tunables, conf.Multiplier, conf.MaxImportance, conf.Scheduler.Seed),
		PrintBestEntries: true,
	}
}

// Run drives the design loop until a candidate passes or the scheduler
// is exhausted. Engine failures burn an attempt and trigger the next
// relaxation; rule-table errors abort before any engine call.
func (d *Designer) Run(seqID, template string) (*Output, error) {
	levels := NewLevelMap(d.conf.Tunables)

	attempt := 0
	relaxedKey := "none"
	var relaxedLevel *int

	for {
		globalArgs, err := BuildGlobalArgs(d.conf.Constants, d.conf.Tunables, levels)
		if err != nil {
			return nil, err
		}

		result, err := d.engine.Design(seqID, template, globalArgs)
		if err != nil {
			// a failed engine call is just an unproductive attempt
			stderr.Printf("engine failure on attempt %d: %v", attempt, err)
		}
		if result == nil {
			result = &Result{}
		}

		levelDisplay := "-"
		if relaxedLevel != nil {
			levelDisplay = fmt.Sprintf("%d", *relaxedLevel)
		}
		stderr.Printf("Attempt %d | relaxed: %s | level: %s | pairs: %d", attempt, relaxedKey, levelDisplay, len(result.Pairs))

		bestIndex, passed := BestPairIndex(result, template, d.conf.Kraken)
		if result.Successful() && passed {
			if d.PrintBestEntries {
				LogEntry("LEFT", result.Lefts[bestIndex])
				LogEntry("RIGHT", result.Rights[bestIndex])
				LogEntry("INTERNAL", result.Internals[bestIndex])
				LogEntry("PAIR", result.Pairs[bestIndex])
			}

			var trios []*Trio
			for index := 0; index < result.Len(); index++ {
				if !passesKrakenRules(result, template, d.conf.Kraken, index) {
					continue
				}
				trios = append(trios, buildTrio(result, index))
			}

			return d.output(seqID, template, attempt, relaxedKey, relaxedLevel, len(result.Pairs), &bestIndex, levels, trios, ""), nil
		}

		step, ok := d.scheduler.Next(levels)
		if !ok {
			stderr.Println("No valid primer pair with internal oligo found after exhausting tunables.")
			return d.output(seqID, template, attempt, relaxedKey, relaxedLevel, len(result.Pairs), nil, levels, nil, StatusNoSolution), nil
		}

		levels[step.Key] = step.Level
		attempt++
		relaxedKey = step.Key
		level := step.Level
		relaxedLevel = &level
	}
}

// output assembles the run record, shared by the success and exhaustion
// terminal states
func (d *Designer) output(
	seqID, template string,
	attempt int, relaxedKey string, relaxedLevel *int,
	pairCount int, bestIndex *int,
	levels LevelMap, trios []*Trio, status string) *Output {
	if trios == nil {
		trios = []*Trio{}
	}

	return &Output{
		RunID:         uuid.NewString(),
		Time:          time.Now().Format("2006-01-02 15:04:05"),
		Attempt:       attempt,
		RelaxedKey:    relaxedKey,
		RelaxedLevel:  relaxedLevel,
		PairCount:     pairCount,
		SequenceID:    seqID,
		Sequence:      template,
		BestIndex:     bestIndex,
		LevelMap:      levels,
		LevelSummary:  levels.Summary(d.conf.Tunables),
		TotalAttempts: attempt + 1,
		Trios:         trios,
		Status:        status,
	}
}

// LogEntry writes one role record to stderr as aligned key: value lines
func LogEntry(label string, e Entry) {
	keys := make([]string, 0, len(e))
	keyWidth := 0
	for key := range e {
		keys = append(keys, key)
		if len(key) > keyWidth {
			keyWidth = len(key)
		}
	}
	sort.Strings(keys)

	stderr.Printf("%s:", label)
	for _, key := range keys {
		stderr.Printf("  %-*s: %v", keyWidth, key, e[key])
	}
	stderr.Println()
}
