package digitizer

import (
	"image"
)

// TraceSeries walks the plot bounds column by column and emits one RawPoint
// per column that has qualifying mask pixels. Columns without any are gaps.
//
// Within a column, qualifying rows are grouped into maximal runs (adjacent
// rows no more than cfg.RunGap apart); the largest run wins and its centroid
// row is emitted. With cfg.SubPixel the centroid is weighted by pixel
// chroma (saturation times value), which tracks the stroke center through
// anti-aliased edges.
//
// Columns inside the right-edge margin that the strict mask left empty get a
// second chance against a relaxed version of the winning profile, reducing
// dropout from clipping and compression artifacts near the crop boundary.
// A relaxed match never replaces a strict one.
func TraceSeries(img image.Image, mask *Mask, bounds PlotBounds, profile ColorProfile, cfg Config) []RawPoint {
	points := make([]RawPoint, 0, bounds.Width())
	relaxed := profile.Relaxed(cfg.RelaxFactor)
	relaxedFrom := bounds.Right - cfg.EdgeMarginPx

	for x := bounds.Left; x < bounds.Right; x++ {
		rows := maskRows(mask, x, bounds)
		if len(rows) == 0 && cfg.RelaxFactor > 1 && x >= relaxedFrom {
			rows = relaxedRows(img, relaxed, x, bounds)
		}
		if len(rows) == 0 {
			continue
		}
		run := largestRun(rows, cfg.RunGap)
		points = append(points, RawPoint{X: x, Y: runCentroid(img, x, run, cfg.SubPixel)})
	}

	return points
}

// maskRows collects the rows inside the plot bounds where the mask is set
// for column x.
func maskRows(mask *Mask, x int, bounds PlotBounds) []int {
	var rows []int
	for y := bounds.Top; y < bounds.Bottom; y++ {
		if mask.At(x, y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// relaxedRows re-scans a column directly against a widened profile.
func relaxedRows(img image.Image, relaxed ColorProfile, x int, bounds PlotBounds) []int {
	ib := img.Bounds()
	var rows []int
	for y := bounds.Top; y < bounds.Bottom; y++ {
		h, s, v, ok := pixelHSV(img, x+ib.Min.X, y+ib.Min.Y)
		if ok && relaxed.Contains(h, s, v) {
			rows = append(rows, y)
		}
	}
	return rows
}

// largestRun splits ascending rows into maximal runs with gaps of at most
// maxGap and returns the longest one. Earlier runs win ties.
func largestRun(rows []int, maxGap int) []int {
	if maxGap < 1 {
		maxGap = 1
	}
	best := rows[:1]
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i]-rows[i-1] > maxGap {
			if i-start > len(best) {
				best = rows[start:i]
			}
			start = i
		}
	}
	return best
}

// runCentroid returns the run's center row, optionally weighted by pixel
// chroma for sub-pixel precision.
func runCentroid(img image.Image, x int, run []int, subPixel bool) float64 {
	if !subPixel {
		sum := 0
		for _, y := range run {
			sum += y
		}
		return float64(sum) / float64(len(run))
	}

	ib := img.Bounds()
	var sumW, sumWY float64
	for _, y := range run {
		w := 1.0
		if _, s, v, ok := pixelHSV(img, x+ib.Min.X, y+ib.Min.Y); ok {
			if sv := s * v; sv > 0 {
				w = sv
			}
		}
		sumW += w
		sumWY += w * float64(y)
	}
	return sumWY / sumW
}
