package digitizer

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ZeroLineResult reports where the zero reference row was found and how
// confidently.
type ZeroLineResult struct {
	Row   float64 `json:"row"`
	Score float64 `json:"score"`
}

// LocateZeroLine finds the horizontal row representing domain value 0.
//
// It scans rows in a vertical band of the plot bounds (the middle third by
// default), excluding a fraction of columns on each side so axis labels do
// not contaminate the row statistics. Each row is scored as
//
//	0.4*darkness + 0.3*uniformity + 0.3*minDarkness
//
// with darkness = 1 - mean/255, uniformity = 1/(1+stddev) and
// minDarkness = 1 - min/255, all over the row's grayscale samples. The
// highest-scoring row wins; near-ties (within cfg.ZeroTieEpsilon) go to the
// row nearer the plot's vertical midpoint. The returned row is refined to
// sub-pixel precision by a darkness-weighted centroid over the winning row
// and its two neighbors.
//
// Scoring is a single deterministic pass: fixed pixels always produce the
// same row. A best score below cfg.MinZeroScore is a fatal
// KindZeroLineNotFound error; the engine never defaults to an arbitrary row.
func LocateZeroLine(img image.Image, bounds PlotBounds, cfg Config) (ZeroLineResult, error) {
	gray := effect.Grayscale(img)
	gb := gray.Bounds()

	rowTop := bounds.Top + int(float64(bounds.Height())*cfg.ZeroBandTop)
	rowBottom := bounds.Top + int(float64(bounds.Height())*cfg.ZeroBandBottom)
	colTrim := int(float64(bounds.Width()) * cfg.ZeroColumnTrim)
	colLeft := bounds.Left + colTrim
	colRight := bounds.Right - colTrim

	if rowBottom <= rowTop || colRight <= colLeft {
		return ZeroLineResult{}, failf(KindZeroLineNotFound,
			"search band is empty for plot bounds %dx%d", bounds.Width(), bounds.Height())
	}

	midpoint := float64(bounds.Top+bounds.Bottom) / 2

	bestRow := -1
	bestScore := math.Inf(-1)
	row := make([]float64, 0, colRight-colLeft)
	darknessAt := make(map[int]float64, rowBottom-rowTop)

	for y := rowTop; y < rowBottom; y++ {
		row = row[:0]
		for x := colLeft; x < colRight; x++ {
			row = append(row, float64(gray.RGBAAt(x+gb.Min.X, y+gb.Min.Y).R))
		}

		mean := stat.Mean(row, nil)
		stddev := stat.StdDev(row, nil)
		darkness := 1 - mean/255
		uniformity := 1 / (1 + stddev)
		minDarkness := 1 - floats.Min(row)/255
		score := 0.4*darkness + 0.3*uniformity + 0.3*minDarkness
		darknessAt[y] = darkness

		switch {
		case score > bestScore+cfg.ZeroTieEpsilon:
			bestRow, bestScore = y, score
		case math.Abs(score-bestScore) <= cfg.ZeroTieEpsilon &&
			math.Abs(float64(y)-midpoint) < math.Abs(float64(bestRow)-midpoint):
			bestRow, bestScore = y, score
		}
	}

	if bestRow < 0 || bestScore < cfg.MinZeroScore {
		return ZeroLineResult{}, failf(KindZeroLineNotFound,
			"best row score %.3f below floor %.3f", bestScore, cfg.MinZeroScore)
	}

	return ZeroLineResult{
		Row:   refineRow(bestRow, darknessAt),
		Score: bestScore,
	}, nil
}

// refineRow shifts the winning row by a darkness-weighted centroid over its
// immediate neighbors, recovering sub-pixel position for anti-aliased lines.
func refineRow(row int, darknessAt map[int]float64) float64 {
	var sumW, sumWY float64
	for y := row - 1; y <= row+1; y++ {
		w, ok := darknessAt[y]
		if !ok || w <= 0 {
			continue
		}
		sumW += w
		sumWY += w * float64(y)
	}
	if sumW == 0 {
		return float64(row)
	}
	return sumWY / sumW
}
