package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// PlotRegion is a detected plot area within a chart screenshot. X1/Y1 are
// inclusive, X2/Y2 exclusive.
type PlotRegion struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// DetectPlotBounds estimates the plot area of a chart screenshot from its
// ink distribution.
//
// The capture background (white or near-white in the charts this server
// reads) dominates the luma histogram; everything meaningfully darker than
// it counts as ink. Rows and columns whose ink count stays below a small
// floor are treated as margin and trimmed away, which removes the whitespace
// around the plot while keeping axis lines, gridlines, and the polyline
// itself inside the detected region.
//
// Sparse antialiasing residue and isolated label strokes survive the floor
// only when a neighborhood supports them, so the result is stable against
// single stray pixels. Detection fails with an error when the image has no
// ink at all.
func DetectPlotBounds(img image.Image) (*PlotRegion, error) {
	gray := effect.Grayscale(img)
	gb := gray.Bounds()
	w, h := gb.Dx(), gb.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	background := dominantLuma(gray)
	threshold := background - 40
	if threshold < 16 {
		threshold = 16
	}

	colInk := make([]int, w)
	rowInk := make([]int, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if int(gray.RGBAAt(x+gb.Min.X, y+gb.Min.Y).R) < threshold {
				colInk[x]++
				rowInk[y]++
			}
		}
	}

	colFloor := inkFloor(h)
	rowFloor := inkFloor(w)

	x1, x2 := inkSpan(colInk, colFloor)
	y1, y2 := inkSpan(rowInk, rowFloor)
	if x1 < 0 || y1 < 0 {
		return nil, fmt.Errorf("no plot ink found above background luma %d", background)
	}

	return &PlotRegion{X1: x1, Y1: y1, X2: x2 + 1, Y2: y2 + 1}, nil
}

// dominantLuma returns the most frequent grayscale value, coarsened to
// 8-value buckets so slight background gradients still count as one level.
func dominantLuma(gray *image.RGBA) int {
	var hist [32]int
	gb := gray.Bounds()
	for y := gb.Min.Y; y < gb.Max.Y; y++ {
		for x := gb.Min.X; x < gb.Max.X; x++ {
			hist[gray.RGBAAt(x, y).R>>3]++
		}
	}
	best := 0
	for i, n := range hist {
		if n > hist[best] {
			best = i
		}
	}
	return best<<3 + 4
}

// inkFloor is the minimum ink count for a row or column to count as part of
// the plot rather than margin noise.
func inkFloor(span int) int {
	floor := span / 100
	if floor < 2 {
		floor = 2
	}
	return floor
}

// inkSpan returns the first and last index whose ink count clears the
// floor, or (-1, -1) when none does.
func inkSpan(ink []int, floor int) (int, int) {
	first, last := -1, -1
	for i, n := range ink {
		if n < floor {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}
