package primerplus

import (
	"math"
	"sort"

	"github.com/MaxwellM34/primerPlus/config"
	"gonum.org/v1/gonum/stat"
)

// Scoring is the top-level block describing how a batch was scored
type Scoring struct {
	Method       string             `json:"method"`
	GroupWeights map[string]float64 `json:"groupWeights"`
	Count        int                `json:"count"`
}

// quantileSteps are the population fractions at which the per-metric
// delta cut-points are taken. Five cut-points map deltas onto the 0-5
// bin scores.
var quantileSteps = []float64{1.0 / 6, 2.0 / 6, 3.0 / 6, 4.0 / 6, 5.0 / 6}

// getMetric reads one named metric off a role record. "length" is
// derived: the oligo sequence length, falling back to the coordinate
// length and then to an explicit length field.
func getMetric(e Entry, key string) (float64, bool) {
	if key != "length" {
		return e.Float(key)
	}

	if seq := e.Sequence(); seq != "" {
		return float64(len(seq)), true
	}
	if _, length, ok := e.Coords(); ok {
		return float64(length), true
	}
	return e.Float("length")
}

// numericDelta is the absolute deviation of an observed metric from its
// target, or nil when the observation is missing or unparsable
func numericDelta(e Entry, key string, target float64) *float64 {
	observed, ok := getMetric(e, key)
	if !ok {
		return nil
	}
	delta := math.Abs(observed - target)
	return &delta
}

// tmDiffDelta scores the derived probe-offset metric: how far the probe
// Tm sits above the mean of the two primer Tms, versus the target offset
func tmDiffDelta(left, right, internal Entry, target float64) *float64 {
	leftTm, okLeft := getMetric(left, "TM")
	rightTm, okRight := getMetric(right, "TM")
	internalTm, okInternal := getMetric(internal, "TM")
	if !okLeft || !okRight || !okInternal {
		return nil
	}

	primerAverage := (leftTm + rightTm) / 2
	delta := math.Abs((internalTm - primerAverage) - target)
	return &delta
}

// computeDeltas fills a trio's per-group delta maps. Primer-level deltas
// are computed independently for the left and right records.
func computeDeltas(t *Trio, opt config.Optimals) {
	deltas := map[string]map[string]*float64{
		"pair":     {},
		"left":     {},
		"right":    {},
		"internal": {},
	}

	for key, target := range opt.Pair {
		deltas["pair"][key] = numericDelta(t.Pair, key, target)
	}
	for key, target := range opt.Primer {
		deltas["left"][key] = numericDelta(t.Left, key, target)
		deltas["right"][key] = numericDelta(t.Right, key, target)
	}
	for key, target := range opt.Internal {
		if key == "TM_DIFF" {
			deltas["internal"][key] = tmDiffDelta(t.Left, t.Right, t.Internal, target)
		} else {
			deltas["internal"][key] = numericDelta(t.Internal, key, target)
		}
	}

	t.Deltas = deltas
}

// buildBins computes the batch-local quantile cut-points for every
// scored metric. Metrics with no valid observations get no bins and
// contribute no scoring signal.
func buildBins(trios []*Trio, opt config.Optimals) map[string][]float64 {
	bins := make(map[string][]float64)

	metric := func(group, key string) {
		var values []float64
		for _, t := range trios {
			if delta := t.Deltas[group][key]; delta != nil {
				values = append(values, *delta)
			}
		}
		if len(values) == 0 {
			return
		}
		sort.Float64s(values)

		cuts := make([]float64, len(quantileSteps))
		for i, p := range quantileSteps {
			cuts[i] = linearQuantile(p, values)
		}
		bins[group+"."+key] = cuts
	}

	for _, key := range sortedKeys(opt.Pair) {
		metric("pair", key)
	}
	for _, key := range sortedKeys(opt.Primer) {
		metric("left", key)
		metric("right", key)
	}
	for _, key := range sortedKeys(opt.Internal) {
		metric("internal", key)
	}

	return bins
}

// linearQuantile is the p-quantile of sorted values with linear
// interpolation between order statistics: the quantile sits at fractional
// position p*(n-1), interpolated between its two neighbors
func linearQuantile(p float64, sorted []float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower] + (pos-float64(lower))*(sorted[upper]-sorted[lower])
}

// scoreFromBins maps a delta to its 0-5 bin score: at or below the first
// cut-point scores 5, above the last scores 0. Batch-relative by design.
func scoreFromBins(delta *float64, bins []float64) (int, bool) {
	if delta == nil || len(bins) == 0 {
		return 0, false
	}
	for i, cut := range bins {
		if *delta <= cut {
			return 5 - i, true
		}
	}
	return 0, true
}

// groupScores averages the bin scores within each group. Missing metrics
// are excluded from their group average rather than scored as zero, so a
// candidate isn't penalized for fields the engine omitted. Primer-level
// metrics average the left and right sub-scores first.
func groupScores(t *Trio, bins map[string][]float64, opt config.Optimals) map[string]float64 {
	var pairScores []float64
	for _, key := range sortedKeys(opt.Pair) {
		if score, ok := scoreFromBins(t.Deltas["pair"][key], bins["pair."+key]); ok {
			pairScores = append(pairScores, float64(score))
		}
	}

	var primerScores []float64
	for _, key := range sortedKeys(opt.Primer) {
		var sides []float64
		if score, ok := scoreFromBins(t.Deltas["left"][key], bins["left."+key]); ok {
			sides = append(sides, float64(score))
		}
		if score, ok := scoreFromBins(t.Deltas["right"][key], bins["right."+key]); ok {
			sides = append(sides, float64(score))
		}
		if len(sides) > 0 {
			primerScores = append(primerScores, mean(sides))
		}
	}

	var internalScores []float64
	for _, key := range sortedKeys(opt.Internal) {
		if score, ok := scoreFromBins(t.Deltas["internal"][key], bins["internal."+key]); ok {
			internalScores = append(internalScores, float64(score))
		}
	}

	return map[string]float64{
		"pair":     mean(pairScores),
		"primers":  mean(primerScores),
		"internal": mean(internalScores),
	}
}

// NormalizeWeights scales group weights to sum to 1. Non-positive
// totals fall back to equal weights.
func NormalizeWeights(weights map[string]float64) map[string]float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	normalized := make(map[string]float64, len(weights))
	if total <= 0 {
		count := len(weights)
		if count == 0 {
			count = 1
		}
		for key := range weights {
			normalized[key] = 1 / float64(count)
		}
		return normalized
	}

	for key, w := range weights {
		normalized[key] = w / total
	}
	return normalized
}

// weightedPercent combines the three group averages into the final
// 0-100 suitability percentage
func weightedPercent(scores map[string]float64, weights map[string]float64) float64 {
	normalized := NormalizeWeights(weights)
	weighted := scores["pair"]*normalized["pair"] +
		scores["primers"]*normalized["primers"] +
		scores["internal"]*normalized["internal"]
	return weighted / 5 * 100
}

// ScoreTrios attaches deltas, group scores and the quantile suitability
// percentage to every trio in a batch, then orders the batch best first.
// Scores are batch-relative: the same raw metrics can score differently
// inside a different batch.
func ScoreTrios(trios []*Trio, opt config.Optimals, weights map[string]float64) []*Trio {
	for _, t := range trios {
		computeDeltas(t, opt)
	}

	bins := buildBins(trios, opt)
	normalized := NormalizeWeights(weights)

	for _, t := range trios {
		t.GroupScores = groupScores(t, bins, opt)
		t.GroupWeights = normalized
		t.QuantilePercent = weightedPercent(t.GroupScores, weights)
	}

	sort.SliceStable(trios, func(i, j int) bool {
		if trios[i].QuantilePercent != trios[j].QuantilePercent {
			return trios[i].QuantilePercent > trios[j].QuantilePercent
		}
		return trios[i].Index < trios[j].Index
	})
	return trios
}

// LoadAndScore reads a design-run record, scores its batch, flags
// GreenLight trios and optionally persists the scored payload
func LoadAndScore(inputPath, outputPath string, conf *config.Config) (*Output, error) {
	payload := &Output{}
	if err := ReadJSON(inputPath, payload); err != nil {
		return nil, err
	}
	if payload.Trios == nil {
		return nil, &FormatError{Path: inputPath, Key: "trios"}
	}

	payload.Trios = ScoreTrios(payload.Trios, conf.Optimals, conf.Scoring.GroupWeights())
	for _, t := range payload.Trios {
		green := GreenLight(t)
		t.GreenLight = &green
	}

	payload.Scoring = &Scoring{
		Method:       "quantile",
		GroupWeights: NormalizeWeights(conf.Scoring.GroupWeights()),
		Count:        len(payload.Trios),
	}

	if outputPath != "" {
		if err := WriteJSON(outputPath, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// mean of a float slice, 0 when empty
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// sortedKeys returns a metric map's keys in stable order
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
