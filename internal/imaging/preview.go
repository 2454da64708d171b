package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PreviewResult contains a re-rendered plot of an extracted series, encoded
// as base64 PNG. Comparing it side by side with the source screenshot is the
// quickest way to judge an extraction.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderSeriesPreview plots the extracted series as a fresh line chart.
//
// xs and ys must have equal nonzero length. extrapolatedFrom, when in
// [0, len(xs)), splits the plot into a solid traced segment and a dotted
// synthesized tail; pass len(xs) or -1 for a fully traced series. A zero
// gridline is drawn when the values cross zero.
func RenderSeriesPreview(xs, ys []float64, extrapolatedFrom, width, height int, title string) (*PreviewResult, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, fmt.Errorf("series must be non-empty with matching lengths, got %d/%d", len(xs), len(ys))
	}
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	if extrapolatedFrom < 0 || extrapolatedFrom > len(xs) {
		extrapolatedFrom = len(xs)
	}

	series := []chart.Series{}
	if extrapolatedFrom > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "traced",
			XValues: xs[:extrapolatedFrom],
			YValues: ys[:extrapolatedFrom],
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("1f77b4"),
				StrokeWidth: 2,
			},
		})
	}
	if extrapolatedFrom < len(xs) {
		series = append(series, chart.ContinuousSeries{
			Name:    "extrapolated",
			XValues: xs[extrapolatedFrom:],
			YValues: ys[extrapolatedFrom:],
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("ff7f0e"),
				StrokeWidth:     2,
				StrokeDashArray: []float64{4, 3},
			},
		})
	}

	if crossesZero(ys) {
		series = append(series, chart.ContinuousSeries{
			Name:    "zero",
			XValues: []float64{xs[0], xs[len(xs)-1]},
			YValues: []float64{0, 0},
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("888888"),
				StrokeWidth: 1,
			},
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		Series:     series,
	}

	// A perfectly flat series has a zero y-range, which go-chart rejects.
	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	if hi-lo < 1e-9 {
		ch.YAxis = chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo - 1, Max: hi + 1},
		}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	return &PreviewResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func crossesZero(ys []float64) bool {
	sawNeg, sawPos := false, false
	for _, v := range ys {
		if v < 0 {
			sawNeg = true
		}
		if v > 0 {
			sawPos = true
		}
	}
	return sawNeg && sawPos
}
