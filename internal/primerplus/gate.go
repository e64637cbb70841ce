package primerplus

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/MaxwellM34/primerPlus/config"
)

// Positions locates one candidate's three oligos on the template. Left
// and internal coordinates are 5' starts; the right primer's reported
// start is its 3'-most base, so its span extends backward by its length.
type Positions struct {
	LeftStart     int `json:"left_start"`
	LeftLen       int `json:"left_len"`
	RightStart    int `json:"right_start"`
	RightLen      int `json:"right_len"`
	InternalStart int `json:"internal_start"`
	InternalLen   int `json:"internal_len"`
}

// LeftEnd is the left primer's 3' end on the forward strand
func (p *Positions) LeftEnd() int { return p.LeftStart + p.LeftLen - 1 }

// InternalEnd is the probe's 3' end on the forward strand
func (p *Positions) InternalEnd() int { return p.InternalStart + p.InternalLen - 1 }

// RightFivePrime is the right primer's 5'-most base projected onto the
// forward strand
func (p *Positions) RightFivePrime() int { return p.RightStart - p.RightLen + 1 }

// positions reconstructs a candidate's oligo spans from engine
// coordinates, or ok=false when any role lacks them
func positions(r *Result, index int) (*Positions, bool) {
	if index < 0 || index >= r.Len() {
		return nil, false
	}

	leftStart, leftLen, okLeft := r.Lefts[index].Coords()
	rightStart, rightLen, okRight := r.Rights[index].Coords()
	internalStart, internalLen, okInternal := r.Internals[index].Coords()
	if !okLeft || !okRight || !okInternal {
		return nil, false
	}

	return &Positions{
		LeftStart:     leftStart,
		LeftLen:       leftLen,
		RightStart:    rightStart,
		RightLen:      rightLen,
		InternalStart: internalStart,
		InternalLen:   internalLen,
	}, true
}

// internalSequence resolves the probe sequence, preferring the engine's
// explicit SEQUENCE field and falling back to slicing the template by
// the probe's coordinates. Returns "" when neither source is usable.
func internalSequence(r *Result, template string, index int) string {
	if index >= 0 && index < len(r.Internals) {
		if seq := r.Internals[index].Sequence(); seq != "" {
			return seq
		}
	}

	pos, ok := positions(r, index)
	if !ok {
		return ""
	}
	if pos.InternalStart < 0 || pos.InternalLen <= 0 {
		return ""
	}

	end := pos.InternalStart + pos.InternalLen
	if end > len(template) {
		return ""
	}
	return template[pos.InternalStart:end]
}

// passesKrakenRules applies the post-generation spacing and probe-prefix
// constraints to one candidate. Candidates with no usable coordinates or
// probe sequence are excluded.
func passesKrakenRules(r *Result, template string, rules config.KrakenConfig, index int) bool {
	if !rules.Enabled {
		return true
	}

	pos, ok := positions(r, index)
	if !ok {
		return false
	}

	leftGap := pos.InternalStart - pos.LeftEnd() - 1
	rightGap := pos.RightFivePrime() - pos.InternalEnd() - 1
	if leftGap < rules.MinLeftProbeGap {
		return false
	}
	if rightGap < rules.MinRightProbeGap {
		return false
	}

	probe := internalSequence(r, template, index)
	if len(probe) < rules.ProbeNoGPrefixLen {
		return false
	}
	return !strings.Contains(strings.ToUpper(probe[:rules.ProbeNoGPrefixLen]), "G")
}

// pairPenalty reads a candidate's composite pair penalty. Falls back to
// the legacy flat PRIMER_PAIR_<i>_PENALTY field, then to +Inf so
// penalty-less candidates rank last.
func pairPenalty(r *Result, index int) float64 {
	if index >= 0 && index < len(r.Pairs) {
		if penalty, ok := r.Pairs[index].Float("PENALTY"); ok {
			return penalty
		}
	}

	if legacy, ok := asFloat(r.Raw[fmt.Sprintf("PRIMER_PAIR_%d_PENALTY", index)]); ok {
		return legacy
	}
	return math.Inf(1)
}

// RankedPair is one passing candidate with its pair penalty
type RankedPair struct {
	Penalty float64
	Index   int
}

// RankPairs filters candidates through the Kraken rules and orders the
// survivors best to worst: ascending penalty, ties broken by the
// original candidate index so ranking is a total order.
func RankPairs(r *Result, template string, rules config.KrakenConfig) []RankedPair {
	var ranked []RankedPair
	for index := 0; index < r.Len(); index++ {
		if !passesKrakenRules(r, template, rules, index) {
			continue
		}
		ranked = append(ranked, RankedPair{Penalty: pairPenalty(r, index), Index: index})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Penalty != ranked[j].Penalty {
			return ranked[i].Penalty < ranked[j].Penalty
		}
		return ranked[i].Index < ranked[j].Index
	})
	return ranked
}

// BestPairIndex returns the lowest-penalty candidate that passes the
// Kraken rules
func BestPairIndex(r *Result, template string, rules config.KrakenConfig) (int, bool) {
	ranked := RankPairs(r, template, rules)
	if len(ranked) == 0 {
		return 0, false
	}
	return ranked[0].Index, true
}
