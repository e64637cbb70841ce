package primerplus

import "math"

// metric reads a named value with a fallback used when it is missing,
// so absent fields fail conservative range checks instead of passing
func metric(e Entry, key string, missing float64) float64 {
	if value, ok := getMetric(e, key); ok {
		return value
	}
	return missing
}

// GreenLight is the conservative hard pass/fail check for a TaqMan
// trio. Unlike quantile scoring it is absolute, not batch-relative: a
// green-lit trio meets every wet-lab threshold on its own.
func GreenLight(t *Trio) bool {
	pair, left, right, internal := t.Pair, t.Left, t.Right, t.Internal

	maxPrimerTm := metric(left, "TM", 0)
	if rightTm := metric(right, "TM", 0); rightTm > maxPrimerTm {
		maxPrimerTm = rightTm
	}

	productSize := metric(pair, "PRODUCT_SIZE", -1)
	productTm := metric(pair, "PRODUCT_TM", -1)
	leftTm := metric(left, "TM", -1)
	rightTm := metric(right, "TM", -1)
	internalTm := metric(internal, "TM", -999)

	return 70 <= productSize && productSize <= 150 &&
		80 <= productTm && productTm <= 90 &&
		57 <= leftTm && leftTm <= 60.5 &&
		57 <= rightTm && rightTm <= 60.5 &&
		math.Abs(leftTm-rightTm) <= 1.5 &&
		inRange(left, "GC_PERCENT", 35, 60) &&
		inRange(right, "GC_PERCENT", 35, 60) &&
		inRange(left, "BOUND", 25, 40) &&
		inRange(right, "BOUND", 25, 40) &&
		inRange(left, "END_STABILITY", 2, 6) &&
		inRange(right, "END_STABILITY", 2, 6) &&
		atMost(left, "SELF_ANY_TH", 35) &&
		atMost(left, "SELF_END_TH", 35) &&
		atMost(left, "HAIRPIN_TH", 35) &&
		atMost(right, "SELF_ANY_TH", 35) &&
		atMost(right, "SELF_END_TH", 35) &&
		atMost(right, "HAIRPIN_TH", 35) &&
		atMost(pair, "COMPL_ANY_TH", 35) &&
		atMost(pair, "COMPL_END_TH", 35) &&
		65 <= internalTm && internalTm <= 75 &&
		internalTm >= maxPrimerTm+5 &&
		internalTm <= maxPrimerTm+15 &&
		inRange(internal, "GC_PERCENT", 40, 65) &&
		inRange(internal, "BOUND", 60, 85) &&
		atMost(internal, "SELF_ANY_TH", 35) &&
		atMost(internal, "SELF_END_TH", 35) &&
		atMost(internal, "HAIRPIN_TH", 35)
}

// inRange checks min <= metric <= max, failing when the metric is missing
func inRange(e Entry, key string, min, max float64) bool {
	value := metric(e, key, min-1)
	return min <= value && value <= max
}

// atMost checks metric <= max, failing when the metric is missing
func atMost(e Entry, key string, max float64) bool {
	return metric(e, key, max+1) <= max
}
