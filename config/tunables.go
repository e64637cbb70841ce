package config

// Kind describes how a tunable's level resolves into primer3 arguments
type Kind string

// tunable kinds. window kinds expand into several primer3 keys,
// Threshold emits a single key named by Primer3Key
const (
	TmWindow         Kind = "tm_block"
	SizeWindow       Kind = "size_block"
	ProductSizeRange Kind = "product_size_block"
	GCWindow         Kind = "gc_block"
	InternalTmWindow Kind = "internal_tm_block"
	InternalSize     Kind = "internal_size_block"
	InternalGC       Kind = "internal_gc_block"
	Threshold        Kind = "leq"
)

// Level is one relaxation step of a Tunable. Only the fields matching
// the Tunable's Kind are meaningful.
type Level struct {
	Min, Opt, Max float64

	// max allowed Tm difference between the two primers (TmWindow only)
	Diff float64

	// product size ranges as [min, max] pairs (ProductSizeRange only)
	Ranges [][2]int

	// single upper bound (Threshold only)
	Value float64
}

// Tunable is a named, relaxable design constraint. Levels are ordered
// loosest-last; the scheduler only ever steps the level index upward.
type Tunable struct {
	// the tunable's name in the rule table
	Key string

	// importance tier, 1..MaxImportance. higher tiers are relaxed less often
	Importance int

	// how levels resolve into primer3 arguments
	Kind Kind

	// ordered, increasingly permissive settings
	Levels []Level

	// the primer3 argument written by Threshold tunables
	Primer3Key string
}

// maxImportance returns the largest importance tier in the table
func maxImportance(tunables []Tunable) int {
	max := 1
	for _, t := range tunables {
		if t.Importance > max {
			max = t.Importance
		}
	}
	return max
}

// primer3Constants are the fixed primer3 arguments shared by every design
// attempt. These always take precedence over tunable-derived keys.
func primer3Constants() map[string]string {
	return map[string]string{
		"PRIMER_PICK_LEFT_PRIMER":    "1",
		"PRIMER_PICK_RIGHT_PRIMER":   "1",
		"PRIMER_PICK_INTERNAL_OLIGO": "1",
		"PRIMER_NUM_RETURN":          "5000",
		"PRIMER_INTERNAL_NUM_RETURN": "5000",
		"PRIMER_ANNEALING_TEMP":      "61",
		"PRIMER_GC_CLAMP":            "1",
		"PRIMER_MAX_POLY_X":          "5",
		"PRIMER_MAX_NS_ACCEPTED":     "1",
		"PRIMER_SALT_MONOVALENT":     "50.0",
		"PRIMER_SALT_DIVALENT":       "1.5",
		"PRIMER_DNTP_CONC":           "0.6",
		"PRIMER_DNA_CONC":            "400.0",

		"PRIMER_INTERNAL_SALT_MONOVALENT": "50",
		"PRIMER_INTERNAL_SALT_DIVALENT":   "1.5",
		"PRIMER_INTERNAL_DNTP_CONC":       "0.0",
		"PRIMER_INTERNAL_DNA_CONC":        "400.0",
		"PRIMER_INTERNAL_MAX_NS_ACCEPTED": "0",

		// non-thermodynamic alignment limits are left wide open. the _TH
		// tunables below are the ones that actually constrain candidates
		"PRIMER_MAX_SELF_END":           "1000",
		"PRIMER_PAIR_MAX_COMPL_END":     "1000",
		"PRIMER_MAX_SELF_ANY":           "1000",
		"PRIMER_PAIR_MAX_COMPL_ANY":     "1000",
		"PRIMER_INTERNAL_MAX_SELF_END":  "1000",
		"PRIMER_INTERNAL_MAX_SELF_ANY":  "1000",

		"PRIMER_SECONDARY_STRUCTURE_ALIGNMENT":    "1",
		"PRIMER_THERMODYNAMIC_OLIGO_ALIGNMENT":    "1",
		"PRIMER_THERMODYNAMIC_TEMPLATE_ALIGNMENT": "1",

		// engine coordinates double as template slice offsets downstream
		"PRIMER_FIRST_BASE_INDEX": "0",
	}
}

// tunableRules is the relaxable constraint table. Each entry's levels run
// from the strictest (index 0) to the loosest setting the assay tolerates.
func tunableRules() []Tunable {
	return []Tunable{
		{
			Key:        "PRIMER_TM_BLOCK",
			Importance: 7,
			Kind:       TmWindow,
			Levels: []Level{
				{Min: 58.0, Opt: 58.5, Max: 59.5, Diff: 1.0},
				{Min: 57.5, Opt: 58.5, Max: 59.75, Diff: 1.5},
				{Min: 57.0, Opt: 58.5, Max: 60, Diff: 2.0},
				{Min: 56.5, Opt: 58.5, Max: 60.3, Diff: 2.0},
			},
		},
		{
			Key:        "PRIMER_SIZE_BLOCK",
			Importance: 3,
			Kind:       SizeWindow,
			Levels: []Level{
				{Min: 18, Opt: 22, Max: 25},
				{Min: 17, Opt: 22, Max: 26},
				{Min: 16, Opt: 22, Max: 28},
			},
		},
		{
			Key:        "PRIMER_PRODUCT_SIZE_BLOCK",
			Importance: 3,
			Kind:       ProductSizeRange,
			Levels: []Level{
				{Ranges: [][2]int{{75, 150}}},
				{Ranges: [][2]int{{70, 160}}},
				{Ranges: [][2]int{{60, 180}}},
			},
		},
		{
			Key:        "PRIMER_GC_BLOCK",
			Importance: 4,
			Kind:       GCWindow,
			Levels: []Level{
				{Min: 40, Opt: 50, Max: 60},
				{Min: 35, Opt: 50, Max: 65},
			},
		},
		{
			Key:        "PRIMER_MAX_SELF_END_TH",
			Importance: 6,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 20}, {Value: 30}},
			Primer3Key: "PRIMER_MAX_SELF_END_TH",
		},
		{
			Key:        "PRIMER_PAIR_MAX_COMPL_END_TH",
			Importance: 6,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 20}, {Value: 25}},
			Primer3Key: "PRIMER_PAIR_MAX_COMPL_END_TH",
		},
		{
			Key:        "PRIMER_MAX_SELF_ANY_TH",
			Importance: 5,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 20}, {Value: 30}, {Value: 40}},
			Primer3Key: "PRIMER_MAX_SELF_ANY_TH",
		},
		{
			Key:        "PRIMER_PAIR_MAX_COMPL_ANY_TH",
			Importance: 5,
			Kind:       Threshold,
			Levels:     []Level{{Value: 20}, {Value: 30}, {Value: 35}},
			Primer3Key: "PRIMER_PAIR_MAX_COMPL_ANY_TH",
		},
		{
			Key:        "PRIMER_MAX_HAIRPIN_TH",
			Importance: 5,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 20}, {Value: 30}, {Value: 40}},
			Primer3Key: "PRIMER_MAX_HAIRPIN_TH",
		},
		{
			Key:        "PRIMER_INTERNAL_TM_BLOCK",
			Importance: 7,
			Kind:       InternalTmWindow,
			Levels: []Level{
				{Min: 67.0, Opt: 69.0, Max: 72.0},
				{Min: 66.0, Opt: 69.0, Max: 72.0},
				{Min: 65.0, Opt: 69.0, Max: 72.0},
				{Min: 65.0, Opt: 69.0, Max: 73.0},
				{Min: 65.0, Opt: 69.0, Max: 73.0},
			},
		},
		{
			Key:        "PRIMER_INTERNAL_MAX_SELF_END_TH",
			Importance: 6,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 15}, {Value: 20}, {Value: 25}},
			Primer3Key: "PRIMER_INTERNAL_MAX_SELF_END_TH",
		},
		{
			Key:        "PRIMER_INTERNAL_MAX_SELF_ANY_TH",
			Importance: 5,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 20}, {Value: 30}, {Value: 35}},
			Primer3Key: "PRIMER_INTERNAL_MAX_SELF_ANY_TH",
		},
		{
			Key:        "PRIMER_INTERNAL_MAX_HAIRPIN_TH",
			Importance: 5,
			Kind:       Threshold,
			Levels:     []Level{{Value: 10}, {Value: 20}, {Value: 30}, {Value: 40}},
			Primer3Key: "PRIMER_INTERNAL_MAX_HAIRPIN_TH",
		},
		{
			Key:        "PRIMER_INTERNAL_SIZE_BLOCK",
			Importance: 2,
			Kind:       InternalSize,
			Levels: []Level{
				{Min: 18, Opt: 22, Max: 25},
				{Min: 17, Opt: 22, Max: 28},
				{Min: 17, Opt: 22, Max: 30},
			},
		},
		{
			Key:        "PRIMER_INTERNAL_GC_BLOCK",
			Importance: 4,
			Kind:       InternalGC,
			Levels: []Level{
				{Min: 45, Opt: 50, Max: 55},
				{Min: 40, Opt: 50, Max: 60},
				{Min: 35, Opt: 50, Max: 65},
				{Min: 30, Opt: 50, Max: 70},
			},
		},
		{
			Key:        "PRIMER_INTERNAL_MAX_POLY_X",
			Importance: 1,
			Kind:       Threshold,
			Levels:     []Level{{Value: 3}, {Value: 4}, {Value: 5}},
			Primer3Key: "PRIMER_INTERNAL_MAX_POLY_X",
		},
	}
}

// Optimals are the per-metric targets for quantile scoring, grouped by
// pair-level, primer-level (left and right), and internal-probe metrics
type Optimals struct {
	Pair     map[string]float64
	Primer   map[string]float64
	Internal map[string]float64
}

// defaultOptimals returns the ideal metric values for a Kraken TaqMan trio.
// "length" is derived from the oligo sequence; "TM_DIFF" is the offset of
// the probe Tm above the mean primer Tm.
func defaultOptimals() Optimals {
	return Optimals{
		Pair: map[string]float64{
			"COMPL_ANY_TH": 0.0,
			"COMPL_END_TH": 0.0,
			"PRODUCT_SIZE": 100,
			"PRODUCT_TM":   83,
		},
		Primer: map[string]float64{
			"length":        21,
			"BOUND":         30,
			"GC_PERCENT":    50.0,
			"SELF_ANY_TH":   0.0,
			"SELF_END_TH":   0.0,
			"HAIRPIN_TH":    0.0,
			"END_STABILITY": 3.5,
		},
		Internal: map[string]float64{
			"length":        23,
			"TM_DIFF":       10.5,
			"BOUND":         70,
			"GC_PERCENT":    50.0,
			"SELF_ANY_TH":   0.0,
			"SELF_END_TH":   0.0,
			"HAIRPIN_TH":    0.0,
			"END_STABILITY": 3.5,
		},
	}
}
