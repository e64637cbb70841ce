package primerplus

// Trio is one left+right+internal candidate set as returned by the
// engine. Scoring later attaches the derived fields without touching
// the engine-provided records.
type Trio struct {
	// the candidate's index in the engine response
	Index int `json:"index"`

	Pair     Entry `json:"pair"`
	Left     Entry `json:"left"`
	Right    Entry `json:"right"`
	Internal Entry `json:"internal"`

	// oligo spans on the template, when the engine reported coordinates
	Positions *Positions `json:"positions,omitempty"`

	// attached by scoring: absolute deviations from the optimal targets,
	// per group and metric. nil means the metric was missing
	Deltas map[string]map[string]*float64 `json:"deltas,omitempty"`

	// attached by scoring: 0-5 averages per group
	GroupScores map[string]float64 `json:"groupScores,omitempty"`

	// attached by scoring: the normalized weights used for this batch
	GroupWeights map[string]float64 `json:"groupWeights,omitempty"`

	// attached by scoring: the 0-100 suitability percentage
	QuantilePercent float64 `json:"quantilePercent,omitempty"`

	// attached by scoring: whether the trio clears the GreenLight rules
	GreenLight *bool `json:"greenLight,omitempty"`
}

// buildTrio assembles the candidate record at an index of the engine
// response
func buildTrio(r *Result, index int) *Trio {
	trio := &Trio{
		Index:    index,
		Pair:     r.Pairs[index],
		Left:     r.Lefts[index],
		Right:    r.Rights[index],
		Internal: r.Internals[index],
	}

	if pos, ok := positions(r, index); ok {
		trio.Positions = pos
	}
	return trio
}
