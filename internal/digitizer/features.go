package digitizer

import (
	"math"
)

// ExtractFeatures derives the named features from a cleaned series.
//
// The maximum ignores the first cfg.MaxSkipSamples samples (chart renderings
// often start with a settling artifact); an all-negative maximum is clamped
// to value 0 at index 0. The minimum is the plain minimum over the whole
// sequence. The terminal value is the last sample, or a stability-weighted
// trailing estimate when cfg.StableTerminal is set.
//
// The first significant rise is the earliest recovery event: a sample below
// zero followed by a sustained jump of at least cfg.MinRiseThreshold. Both
// rise fields stay nil when no such event exists, which is a valid outcome.
func ExtractFeatures(samples []SeriesSample, cfg Config) FeatureSet {
	if len(samples) == 0 {
		return FeatureSet{}
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}

	fs := FeatureSet{
		TerminalValue: terminalValue(values, cfg),
	}

	fs.MaxValue, fs.MaxIndex = maxFeature(values, cfg.MaxSkipSamples)
	fs.MinValue, fs.MinIndex = minFeature(values)

	if idx, ok := firstRise(values, cfg); ok {
		v := values[idx]
		fs.FirstRiseIndex = &idx
		fs.FirstRiseValue = &v
	}

	return fs
}

// maxFeature finds the maximum, skipping the leading samples. A negative
// result clamps to (0, 0).
func maxFeature(values []float64, skip int) (float64, int) {
	if skip >= len(values) {
		skip = 0
	}
	maxIdx := skip
	for i := skip + 1; i < len(values); i++ {
		if values[i] > values[maxIdx] {
			maxIdx = i
		}
	}
	if values[maxIdx] < 0 {
		return 0, 0
	}
	return values[maxIdx], maxIdx
}

func minFeature(values []float64) (float64, int) {
	minIdx := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[minIdx] {
			minIdx = i
		}
	}
	return values[minIdx], minIdx
}

// terminalValue is the last sample, or a trailing-window estimate weighted
// toward stable (low local movement) samples when enabled.
func terminalValue(values []float64, cfg Config) float64 {
	last := values[len(values)-1]
	if !cfg.StableTerminal || len(values) < 3 {
		return last
	}

	w := cfg.TerminalWindow
	if w < 3 {
		w = 3
	}
	lo := len(values) - w
	if lo < 1 {
		lo = 1
	}

	var sumW, sumWV float64
	for i := lo; i < len(values); i++ {
		// Samples in the middle of a move get little weight.
		movement := math.Abs(values[i] - values[i-1])
		weight := 1 / (1 + movement)
		sumW += weight
		sumWV += weight * values[i]
	}
	if sumW == 0 {
		return last
	}
	return sumWV / sumW
}

// firstRise scans for the first sustained significant rise from a negative
// baseline. The primary rule requires the candidate to sit at or below its
// predecessor; the secondary, more permissive rule accepts a near-flat or
// declining trailing trend instead. Both require the step after the rise to
// hold within cfg.RiseSlack.
func firstRise(values []float64, cfg Config) (int, bool) {
	limit := len(values) - 2
	if cfg.RiseScanLimit > 0 && cfg.RiseScanLimit < limit {
		limit = cfg.RiseScanLimit
	}

	for i := 0; i < limit; i++ {
		if !riseAt(values, i, cfg) {
			continue
		}
		if i == 0 || values[i] <= values[i-1]+cfg.RiseSlack {
			return i, true
		}
	}

	// Permissive pass: a near-flat or declining short trailing trend in
	// place of a strict prior decline.
	for i := 0; i < limit; i++ {
		if riseAt(values, i, cfg) && trailingTrendFlat(values, i, cfg.RiseSlack) {
			return i, true
		}
	}

	return 0, false
}

// riseAt reports whether index i starts a sustained significant rise from a
// negative value.
func riseAt(values []float64, i int, cfg Config) bool {
	if values[i] >= 0 {
		return false
	}
	delta := values[i+1] - values[i]
	if delta <= cfg.MinRiseThreshold {
		return false
	}
	return values[i+2] >= values[i+1]-cfg.RiseSlack
}

// trailingTrendFlat checks that the few samples before i do not trend
// upward by more than the slack per step.
func trailingTrendFlat(values []float64, i int, slack float64) bool {
	const lookback = 5
	lo := i - lookback
	if lo < 0 {
		lo = 0
	}
	if i == lo {
		return true
	}
	perStep := (values[i] - values[lo]) / float64(i-lo)
	return perStep <= slack
}
