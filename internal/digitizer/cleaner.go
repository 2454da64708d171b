package digitizer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// madScale converts a median absolute deviation into a robust standard
// deviation estimate for normally distributed noise.
const madScale = 1.4826

// CleanSeries removes spikes and smooths a mapped series while protecting
// true extrema and endpoints, then fills trailing dropout by extrapolation.
//
// The pass order is:
//
//  1. Hampel filter: samples deviating more than k*1.4826*MAD from the
//     median of their window neighbors are replaced by that median. The
//     candidate is excluded from its own window statistics. The first and
//     last samples are never altered.
//  2. Adaptive polynomial smoothing: each interior sample is replaced by the
//     center of a degree-2 least-squares fit over a window whose size shrinks
//     where local volatility is high, so genuine spikes are not flattened.
//     A protected zone of ±cfg.ProtectedRadius samples around the current
//     maximum is left untouched, as are both endpoints.
//  3. Edge extrapolation: when the trailing cfg.EdgeMarginPx columns hold
//     fewer than cfg.MinEdgePoints samples, a degree-2 fit over the last
//     cfg.ExtrapolationPoints samples is extended to the right plot boundary.
//     Extrapolated samples are tagged and clamped to the domain range.
//
// The returned bool reports whether extrapolation degraded the result.
func CleanSeries(samples []SeriesSample, bounds PlotBounds, cfg Config) ([]SeriesSample, bool) {
	if len(samples) < 3 {
		return samples, false
	}

	out := make([]SeriesSample, len(samples))
	copy(out, samples)

	hampel(out, cfg.HampelWindow, cfg.HampelK)
	adaptiveSmooth(out, cfg)
	out, degraded := extrapolateEdge(out, bounds, cfg)

	return out, degraded
}

// hampel replaces outliers with the median of their window neighbors. The
// candidate itself is excluded from the window statistics: a large spike
// included in its own window inflates the MAD enough to shield itself from
// rejection. Windows are truncated at the sequence ends; endpoints
// themselves are exempt.
func hampel(s []SeriesSample, window int, k float64) {
	if window < 3 {
		return
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	values := make([]float64, len(s))
	for i := range s {
		values[i] = s[i].Value
	}

	win := make([]float64, 0, window)
	dev := make([]float64, 0, window)
	for i := 1; i < len(s)-1; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(s) {
			hi = len(s)
		}

		win = win[:0]
		for j := lo; j < hi; j++ {
			if j != i {
				win = append(win, values[j])
			}
		}
		med := median(win)

		dev = dev[:0]
		for _, v := range win {
			dev = append(dev, math.Abs(v-med))
		}
		sigma := madScale * median(dev)
		if sigma == 0 {
			// Neighbors are all at the median; any deviation is a spike.
			if values[i] != med {
				s[i].Value = med
			}
			continue
		}
		if math.Abs(values[i]-med) > k*sigma {
			s[i].Value = med
		}
	}
}

// adaptiveSmooth applies the windowed polynomial smoother. The window for
// each sample is picked from the local-to-global volatility ratio: quiet
// stretches get the full window, volatile ones the minimum.
func adaptiveSmooth(s []SeriesSample, cfg Config) {
	n := len(s)
	if n < cfg.SmoothWindowMin || cfg.SmoothWindowMax < 3 {
		return
	}

	values := make([]float64, n)
	xs := make([]float64, n)
	for i := range s {
		values[i] = s[i].Value
		xs[i] = float64(s[i].X)
	}
	globalVol := stat.StdDev(values, nil)

	maxIdx := 0
	for i := range values {
		if values[i] > values[maxIdx] {
			maxIdx = i
		}
	}

	for i := 1; i < n-1; i++ {
		if abs(i-maxIdx) <= cfg.ProtectedRadius {
			continue
		}

		w := smoothWindow(values, i, globalVol, cfg)
		half := w / 2
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > n {
			hi = n
		}
		if hi-lo < 3 {
			continue
		}

		coeffs, err := polyFit(xs[lo:hi], values[lo:hi], 2, xs[i])
		if err != nil {
			continue
		}
		// The fit is centered on xs[i], so the constant term is the
		// smoothed value.
		s[i].Value = coeffs[0]
	}
}

// smoothWindow sizes the smoothing window for sample i. High local
// volatility relative to the whole series shrinks the window so sharp real
// moves survive smoothing.
func smoothWindow(values []float64, i int, globalVol float64, cfg Config) int {
	w := cfg.SmoothWindowMax
	if w%2 == 0 {
		w++
	}
	if globalVol == 0 {
		return w
	}

	half := cfg.SmoothWindowMax / 2
	lo := i - half
	if lo < 0 {
		lo = 0
	}
	hi := i + half + 1
	if hi > len(values) {
		hi = len(values)
	}
	localVol := stat.StdDev(values[lo:hi], nil)

	switch ratio := localVol / globalVol; {
	case ratio > 1.2:
		w = cfg.SmoothWindowMin
	case ratio > 0.8:
		w = (cfg.SmoothWindowMin + cfg.SmoothWindowMax) / 2
	}
	if w%2 == 0 {
		w++
	}
	if w < 3 {
		w = 3
	}
	return w
}

// extrapolateEdge fills trailing dropout with a low-order polynomial fit.
func extrapolateEdge(s []SeriesSample, bounds PlotBounds, cfg Config) ([]SeriesSample, bool) {
	edgeStart := bounds.Right - cfg.EdgeMarginPx
	edgeCount := 0
	for _, p := range s {
		if p.X >= edgeStart {
			edgeCount++
		}
	}
	if edgeCount >= cfg.MinEdgePoints {
		return s, false
	}

	m := cfg.ExtrapolationPoints
	if len(s) < m {
		// Too little history for a trustworthy fit; leave the gap open.
		return s, false
	}
	tail := s[len(s)-m:]
	lastX := s[len(s)-1].X
	if lastX >= bounds.Right-1 {
		return s, false
	}

	xs := make([]float64, m)
	ys := make([]float64, m)
	for i, p := range tail {
		xs[i] = float64(p.X)
		ys[i] = p.Value
	}
	center := float64(lastX)
	coeffs, err := polyFit(xs, ys, 2, center)
	if err != nil {
		return s, false
	}

	for x := lastX + 1; x < bounds.Right; x++ {
		v := polyEval(coeffs, float64(x)-center)
		s = append(s, SeriesSample{
			X:            x,
			Value:        clampValue(v, cfg.DomainMin, cfg.DomainMax),
			Extrapolated: true,
		})
	}
	return s, true
}

// polyFit least-squares fits a polynomial of the given degree to (xs-center,
// ys) and returns its coefficients, constant term first. The degree drops
// automatically when there are too few points to constrain it.
func polyFit(xs, ys []float64, degree int, center float64) ([]float64, error) {
	n := len(xs)
	for degree+1 > n {
		degree--
	}
	if degree < 0 {
		degree = 0
	}

	a := mat.NewDense(n, degree+1, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x := xs[i] - center
		pow := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, pow)
			pow *= x
		}
		b.SetVec(i, ys[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		return nil, err
	}

	coeffs := make([]float64, degree+1)
	for j := 0; j <= degree; j++ {
		coeffs[j] = params.AtVec(j)
	}
	return coeffs, nil
}

// polyEval evaluates coefficients (constant first) at x via Horner's rule.
func polyEval(coeffs []float64, x float64) float64 {
	v := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*x + coeffs[i]
	}
	return v
}

// median returns the true median (the mean of the middle pair for even
// lengths) without mutating its input.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
