// Package calibrate derives axis calibration from chart tick labels.
//
// The digitizer can run on a fixed units-per-pixel scale, but when the
// y-axis labels are legible it is better to measure the scale off the chart
// itself. This package OCRs the label strip, parses the numeric tick values,
// pairs each with the pixel row of its label center, and picks the two
// best-separated ticks as axis anchors for the digitizer's mapper.
package calibrate

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/cliffwatch/chart-digitizer/internal/digitizer"
	"github.com/cliffwatch/chart-digitizer/internal/ocr"
)

// MinTickConfidence is the OCR confidence floor below which a recognized
// label is not trusted as a tick.
const MinTickConfidence = 0.60

// Tick is one parsed axis label: its numeric value and the vertical center
// of its bounding box.
type Tick struct {
	Row        float64 `json:"row"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ParseTickValue parses an axis label into its numeric value.
//
// Accepted forms are plain integers and decimals with optional sign,
// thousands separators ("15,000"), and k/K or m/M magnitude suffixes
// ("15k" = 15000, "1.5M" = 1500000).
func ParseTickValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty tick label")
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1e3
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1e6
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable tick label %q", s)
	}
	return v * multiplier, nil
}

// TicksFromRegions converts OCR word regions into parsed ticks, dropping
// words that fail to parse or fall below the confidence floor.
func TicksFromRegions(regions []ocr.TextRegion, minConfidence float64) []Tick {
	ticks := make([]Tick, 0, len(regions))
	for _, r := range regions {
		if r.Confidence < minConfidence {
			continue
		}
		v, err := ParseTickValue(r.Text)
		if err != nil {
			continue
		}
		ticks = append(ticks, Tick{
			Row:        float64(r.Bounds.Y1+r.Bounds.Y2) / 2,
			Value:      v,
			Confidence: r.Confidence,
		})
	}
	return ticks
}

// AnchorsFromTicks picks the two vertically best-separated ticks as axis
// anchors. Wide separation dilutes the per-tick row error (a label box is a
// few pixels tall) across the largest possible pixel span.
//
// At least two ticks with distinct rows and distinct values are required;
// equal values at different rows (or the reverse) mean the labels were
// misread and no trustworthy calibration exists.
func AnchorsFromTicks(ticks []Tick) (*digitizer.AxisAnchors, error) {
	if len(ticks) < 2 {
		return nil, fmt.Errorf("need at least 2 parsed ticks, got %d", len(ticks))
	}

	bi, bj := 0, 1
	bestSpan := 0.0
	for i := 0; i < len(ticks); i++ {
		for j := i + 1; j < len(ticks); j++ {
			span := ticks[i].Row - ticks[j].Row
			if span < 0 {
				span = -span
			}
			if span > bestSpan {
				bi, bj, bestSpan = i, j, span
			}
		}
	}

	a, b := ticks[bi], ticks[bj]
	if a.Row == b.Row || a.Value == b.Value {
		return nil, fmt.Errorf("ticks do not span the axis: rows %.1f/%.1f values %g/%g",
			a.Row, b.Row, a.Value, b.Value)
	}

	return &digitizer.AxisAnchors{
		Row1:   a.Row,
		Value1: a.Value,
		Row2:   b.Row,
		Value2: b.Value,
	}, nil
}

// ReadAxisAnchors OCRs the given label strip of a chart image and returns
// axis anchors derived from its tick labels. (x1,y1)-(x2,y2) is typically
// the y-axis region to the left of the plot.
func ReadAxisAnchors(img image.Image, x1, y1, x2, y2 int) (*digitizer.AxisAnchors, error) {
	result, err := ocr.ExtractTextFromRegion(img, x1, y1, x2, y2, "eng", ocr.NumericWhitelist)
	if err != nil {
		return nil, fmt.Errorf("tick label OCR failed: %w", err)
	}

	ticks := TicksFromRegions(result.Regions, MinTickConfidence)
	anchors, err := AnchorsFromTicks(ticks)
	if err != nil {
		return nil, fmt.Errorf("no usable tick labels in region: %w", err)
	}
	return anchors, nil
}
