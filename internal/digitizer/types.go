package digitizer

import (
	"fmt"
	"image"
)

// PlotBounds is the rectangle containing the chart's plot area, supplied by
// the external cropping step. Left/Top are inclusive, Right/Bottom exclusive.
type PlotBounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (b PlotBounds) Width() int { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b PlotBounds) Height() int { return b.Bottom - b.Top }

// Validate checks the bounds invariant against the image dimensions:
// 0 <= left < right <= width and 0 <= top < bottom <= height.
func (b PlotBounds) Validate(img image.Image) error {
	ib := img.Bounds()
	w, h := ib.Dx(), ib.Dy()
	if b.Left < 0 || b.Left >= b.Right || b.Right > w {
		return fmt.Errorf("invalid horizontal plot bounds [%d,%d) for width %d", b.Left, b.Right, w)
	}
	if b.Top < 0 || b.Top >= b.Bottom || b.Bottom > h {
		return fmt.Errorf("invalid vertical plot bounds [%d,%d) for height %d", b.Top, b.Bottom, h)
	}
	return nil
}

// RawPoint is one traced pixel-space sample: an integer column and a
// (possibly sub-pixel) row. Columns with no qualifying mask pixels produce
// no RawPoint at all; gaps are never zero-filled.
type RawPoint struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

// SeriesSample is a RawPoint mapped into domain values. Extrapolated marks
// samples synthesized by the trailing-edge fit rather than traced from
// pixels.
type SeriesSample struct {
	X            int     `json:"x"`
	Value        float64 `json:"value"`
	Extrapolated bool    `json:"extrapolated,omitempty"`
}

// AxisAnchors are two known gridlines (pixel row plus domain value each),
// typically read off axis tick labels by the calibration collaborator. They
// override the calibrated constant scale.
type AxisAnchors struct {
	Row1   float64 `json:"row1"`
	Value1 float64 `json:"value1"`
	Row2   float64 `json:"row2"`
	Value2 float64 `json:"value2"`
}

// FeatureSet is the named features derived from a cleaned series.
// FirstRiseIndex and FirstRiseValue are nil when no first significant rise
// exists, which is a valid and common outcome.
type FeatureSet struct {
	MaxValue       float64  `json:"max_value"`
	MaxIndex       int      `json:"max_index"`
	MinValue       float64  `json:"min_value"`
	MinIndex       int      `json:"min_index"`
	TerminalValue  float64  `json:"terminal_value"`
	FirstRiseIndex *int     `json:"first_rise_index,omitempty"`
	FirstRiseValue *float64 `json:"first_rise_value,omitempty"`
}
