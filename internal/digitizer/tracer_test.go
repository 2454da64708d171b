package digitizer

import (
	"image/color"
	"math"
	"testing"
)

// maskFromRows builds a mask with the given rows set for every column in
// [0, w).
func maskFromRows(w, h int, rows ...int) *Mask {
	m := NewMask(w, h)
	for x := 0; x < w; x++ {
		for _, y := range rows {
			m.Set(x, y, true)
		}
	}
	return m
}

func TestTraceSeries_HorizontalLine(t *testing.T) {
	img := newChartImage(100, 200, magenta, 60, 3, -1)
	mask := maskFromRows(100, 200, 60, 61, 62)
	cfg := DefaultConfig()

	points := TraceSeries(img, mask, fullBounds(img), DefaultPalette()[1], cfg)
	if len(points) != 100 {
		t.Fatalf("points: got %d, want 100 (one per column)", len(points))
	}
	for _, p := range points {
		if math.Abs(p.Y-61) > 0.5 {
			t.Errorf("column %d: centroid %v, want ~61", p.X, p.Y)
		}
	}
}

func TestTraceSeries_GapColumnsSkipped(t *testing.T) {
	img := newChartImage(100, 200, magenta, 60, 1, -1)
	mask := maskFromRows(100, 200, 60)
	for x := 40; x < 50; x++ {
		mask.Set(x, 60, false)
		for y := 0; y < 200; y++ {
			img.Set(x, y, white)
		}
	}
	cfg := DefaultConfig()
	cfg.RelaxFactor = 1.0 // no edge recovery in this test

	points := TraceSeries(img, mask, fullBounds(img), DefaultPalette()[1], cfg)
	if len(points) != 90 {
		t.Fatalf("points: got %d, want 90", len(points))
	}
	for _, p := range points {
		if p.X >= 40 && p.X < 50 {
			t.Errorf("column %d should be a gap", p.X)
		}
	}
}

func TestTraceSeries_LargestRunWins(t *testing.T) {
	// Column noise: a 1px blob at row 20 must lose to the 3px stroke at
	// rows 60-62.
	img := newChartImage(100, 200, magenta, 60, 3, -1)
	mask := maskFromRows(100, 200, 60, 61, 62)
	mask.Set(50, 20, true)
	cfg := DefaultConfig()
	cfg.SubPixel = false

	points := TraceSeries(img, mask, fullBounds(img), DefaultPalette()[1], cfg)
	for _, p := range points {
		if p.X == 50 && math.Abs(p.Y-61) > 0.01 {
			t.Errorf("column 50: centroid %v, want 61", p.Y)
		}
	}
}

func TestTraceSeries_RunGapBridgesDropout(t *testing.T) {
	// Rows 60 and 62 with 61 missing still form one run under RunGap 2.
	mask := maskFromRows(100, 200, 60, 62)
	img := newChartImage(100, 200, magenta, 60, 3, -1)
	cfg := DefaultConfig()
	cfg.SubPixel = false

	points := TraceSeries(img, mask, fullBounds(img), DefaultPalette()[1], cfg)
	if len(points) != 100 {
		t.Fatalf("points: got %d, want 100", len(points))
	}
	if got := points[0].Y; math.Abs(got-61) > 0.01 {
		t.Errorf("centroid: got %v, want 61", got)
	}
}

func TestTraceSeries_RelaxedEdgeRecovery(t *testing.T) {
	// The last 10 columns carry a washed-out stroke the strict mask missed.
	// With the relaxed pass they are recovered; without it they stay gaps.
	img := newChartImage(100, 200, magenta, 60, 1, -1)
	pale := color.RGBA{250, 160, 250, 255} // low saturation magenta
	for x := 90; x < 100; x++ {
		img.Set(x, 60, white)
		img.Set(x, 61, pale)
	}
	mask := maskFromRows(100, 200, 60)
	for x := 90; x < 100; x++ {
		mask.Set(x, 60, false)
	}
	cfg := DefaultConfig()
	cfg.EdgeMarginPx = 15

	profile := DefaultPalette()[1]
	if profile.Name != "magenta" {
		t.Fatalf("palette order changed: got %q", profile.Name)
	}

	points := TraceSeries(img, mask, fullBounds(img), profile, cfg)
	if len(points) != 100 {
		t.Fatalf("points with relaxation: got %d, want 100", len(points))
	}

	cfg.RelaxFactor = 1.0
	points = TraceSeries(img, mask, fullBounds(img), profile, cfg)
	if len(points) != 90 {
		t.Fatalf("points without relaxation: got %d, want 90", len(points))
	}
}

func TestTraceSeries_RelaxedPassOnlyNearEdge(t *testing.T) {
	// The same washed-out stroke in mid-plot must not be recovered.
	img := newChartImage(100, 200, magenta, 60, 1, -1)
	pale := color.RGBA{250, 160, 250, 255}
	for x := 40; x < 50; x++ {
		img.Set(x, 60, white)
		img.Set(x, 61, pale)
	}
	mask := maskFromRows(100, 200, 60)
	for x := 40; x < 50; x++ {
		mask.Set(x, 60, false)
	}
	cfg := DefaultConfig()
	cfg.EdgeMarginPx = 15

	points := TraceSeries(img, mask, fullBounds(img), DefaultPalette()[1], cfg)
	for _, p := range points {
		if p.X >= 40 && p.X < 50 {
			t.Errorf("mid-plot column %d recovered by relaxed pass", p.X)
		}
	}
}

func TestTraceSeries_SubPixelCentroid(t *testing.T) {
	// A saturated row at 60 and a pale row at 61: the chroma-weighted
	// centroid must land closer to 60 than the plain mean of 60.5.
	img := newChartImage(100, 200, magenta, 60, 1, -1)
	pale := color.RGBA{250, 160, 250, 255}
	for x := 0; x < 100; x++ {
		img.Set(x, 61, pale)
	}
	mask := maskFromRows(100, 200, 60, 61)

	points := TraceSeries(img, mask, fullBounds(img), DefaultPalette()[1], DefaultConfig())
	if len(points) == 0 {
		t.Fatal("no points traced")
	}
	got := points[0].Y
	if got <= 60 || got >= 60.5 {
		t.Errorf("chroma centroid: got %v, want within (60, 60.5)", got)
	}
}

func TestLargestRun(t *testing.T) {
	tests := []struct {
		name   string
		rows   []int
		maxGap int
		want   []int
	}{
		{"single run", []int{5, 6, 7}, 1, []int{5, 6, 7}},
		{"longest wins", []int{5, 20, 21, 22}, 1, []int{20, 21, 22}},
		{"tie goes to earlier", []int{5, 6, 20, 21}, 1, []int{5, 6}},
		{"gap bridged", []int{5, 7, 9}, 2, []int{5, 7, 9}},
		{"gap split", []int{5, 7, 9}, 1, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := largestRun(tt.rows, tt.maxGap)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
