package digitizer

// Config consolidates every tunable threshold of the pipeline so behavior is
// adjustable (and testable) without code edits. Zero values are not usable;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// Palette lists the candidate series colors in priority order. Ties in
	// the membership count are broken by declaration order.
	Palette []ColorProfile

	// MinMaskPixels is the minimum member-pixel count a profile must reach
	// inside the plot bounds; below it classification fails.
	MinMaskPixels int

	// BlurRadius is the Gaussian pre-blur applied before counting profile
	// members, damping JPEG ringing around the polyline. 0 disables.
	BlurRadius float64

	// MorphIterations is the strength of the morphological close+open pass
	// that removes speckle from the membership mask.
	MorphIterations int

	// ZeroBandTop and ZeroBandBottom bound the zero-line search band as
	// fractions of the plot height.
	ZeroBandTop, ZeroBandBottom float64

	// ZeroColumnTrim excludes this fraction of columns on each side of the
	// plot from row scoring, avoiding axis-label contamination.
	ZeroColumnTrim float64

	// MinZeroScore is the floor a row score must clear for the zero line to
	// count as found.
	MinZeroScore float64

	// ZeroTieEpsilon is the score margin within which two rows are treated
	// as tied; ties go to the row nearer the band's vertical midpoint.
	ZeroTieEpsilon float64

	// UnitsPerPixel is the calibrated fallback scale used when no axis
	// anchors are supplied.
	UnitsPerPixel float64

	// DomainMin and DomainMax declare the legal value range. Mapped values
	// are clamped to it; exceeding it by more than DomainTolerance is a
	// fatal calibration error.
	DomainMin, DomainMax float64
	DomainTolerance      float64

	// RunGap is the maximum row gap (in pixels) within which mask rows in a
	// column are grouped into one run.
	RunGap int

	// SubPixel enables intensity-weighted centroid refinement of each
	// column's traced row.
	SubPixel bool

	// EdgeMarginPx is the width of the right-edge zone where a relaxed mask
	// pass may recover dropout and where extrapolation triggers.
	EdgeMarginPx int

	// RelaxFactor widens the winning profile's bounds for the relaxed
	// right-edge pass. 1.0 disables relaxation.
	RelaxFactor float64

	// HampelWindow (odd) and HampelK parameterize the sliding median+MAD
	// outlier filter.
	HampelWindow int
	HampelK      float64

	// SmoothWindowMin and SmoothWindowMax (both odd) bound the adaptive
	// smoothing window; high local volatility shrinks the window toward the
	// minimum so real spikes are not flattened.
	SmoothWindowMin, SmoothWindowMax int

	// ProtectedRadius is the half-width of the no-smoothing zone around the
	// current maximum index.
	ProtectedRadius int

	// MinEdgePoints is how many traced points the trailing EdgeMarginPx
	// columns must contain before extrapolation kicks in.
	MinEdgePoints int

	// ExtrapolationPoints is how many trailing samples feed the
	// extrapolation fit.
	ExtrapolationPoints int

	// MinValidPoints is the minimum surviving trace size; below it the
	// whole extraction fails.
	MinValidPoints int

	// MaxSkipSamples excludes this many leading samples from the maximum
	// search.
	MaxSkipSamples int

	// MinRiseThreshold is the minimum one-step delta (domain units) for the
	// first-significant-rise feature. The permissive 100-unit variant is
	// the default; see DESIGN.md.
	MinRiseThreshold float64

	// RiseSlack is how far the sample after a candidate rise may fall back
	// while the rise still counts as sustained.
	RiseSlack float64

	// RiseScanLimit bounds how many samples the first-rise scan examines.
	RiseScanLimit int

	// StableTerminal switches the terminal value from the plain last sample
	// to a stability-weighted trailing-window estimate.
	StableTerminal bool

	// TerminalWindow is the trailing window size for the stable estimate.
	TerminalWindow int
}

// DefaultConfig returns the tuning used in production extractions.
func DefaultConfig() Config {
	return Config{
		Palette:             DefaultPalette(),
		MinMaskPixels:       50,
		BlurRadius:          1.0,
		MorphIterations:     1,
		ZeroBandTop:         1.0 / 3.0,
		ZeroBandBottom:      2.0 / 3.0,
		ZeroColumnTrim:      0.20,
		MinZeroScore:        0.45,
		ZeroTieEpsilon:      0.005,
		UnitsPerPixel:       300,
		DomainMin:           -30000,
		DomainMax:           30000,
		DomainTolerance:     500,
		RunGap:              2,
		SubPixel:            true,
		EdgeMarginPx:        30,
		RelaxFactor:         1.5,
		HampelWindow:        11,
		HampelK:             3.0,
		SmoothWindowMin:     3,
		SmoothWindowMax:     9,
		ProtectedRadius:     10,
		MinEdgePoints:       3,
		ExtrapolationPoints: 20,
		MinValidPoints:      10,
		MaxSkipSamples:      5,
		MinRiseThreshold:    100,
		RiseSlack:           50,
		RiseScanLimit:       150,
		StableTerminal:      false,
		TerminalWindow:      15,
	}
}
