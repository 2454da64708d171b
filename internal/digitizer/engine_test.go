package digitizer

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestEngine_DigitizeFlatLine(t *testing.T) {
	// Magenta stroke at rows 59-61 (centroid 60), zero line at row 110,
	// default scale 300 units/px: every column maps to (110-60)*300 = 15000.
	img := newChartImage(300, 220, magenta, 59, 3, 110)
	eng := New(DefaultConfig(), quietLogger())

	res, err := eng.Digitize(img, fullBounds(img), nil)
	if err != nil {
		t.Fatalf("Digitize failed: %v", err)
	}

	if res.Color != "magenta" {
		t.Errorf("color: got %q, want magenta", res.Color)
	}
	if math.Abs(res.ZeroRow-110) > 0.5 {
		t.Errorf("zero row: got %v, want ~110", res.ZeroRow)
	}
	if res.Scale != 300 {
		t.Errorf("scale: got %v, want 300", res.Scale)
	}
	if res.Degraded {
		t.Error("full-width trace reported degraded")
	}
	if len(res.Series) != 300 {
		t.Fatalf("series length: got %d, want 300", len(res.Series))
	}
	for _, p := range res.Series {
		if math.Abs(p.Value-15000) > 200 {
			t.Errorf("column %d: value %v, want ~15000", p.X, p.Value)
		}
	}
	if math.Abs(res.Features.TerminalValue-15000) > 200 {
		t.Errorf("terminal: got %v, want ~15000", res.Features.TerminalValue)
	}
	if res.Features.FirstRiseIndex != nil {
		t.Error("flat positive series must not report a first rise")
	}
}

func TestEngine_DigitizeOrderedByColumn(t *testing.T) {
	img := newChartImage(300, 220, magenta, 59, 3, 110)
	eng := New(DefaultConfig(), quietLogger())

	res, err := eng.Digitize(img, fullBounds(img), nil)
	if err != nil {
		t.Fatalf("Digitize failed: %v", err)
	}
	for i := 1; i < len(res.Series); i++ {
		if res.Series[i].X <= res.Series[i-1].X {
			t.Fatalf("series not strictly ordered at %d: %d then %d",
				i, res.Series[i-1].X, res.Series[i].X)
		}
	}
}

func TestEngine_DigitizeWithAnchors(t *testing.T) {
	img := newChartImage(300, 220, magenta, 59, 3, 110)
	eng := New(DefaultConfig(), quietLogger())
	anchors := &AxisAnchors{Row1: 110, Value1: 0, Row2: 60, Value2: 10000}

	res, err := eng.Digitize(img, fullBounds(img), anchors)
	if err != nil {
		t.Fatalf("Digitize failed: %v", err)
	}
	if res.Scale != 200 {
		t.Errorf("anchor scale: got %v, want 200", res.Scale)
	}
	for _, p := range res.Series {
		if math.Abs(p.Value-10000) > 150 {
			t.Errorf("column %d: value %v, want ~10000", p.X, p.Value)
		}
	}
}

func TestEngine_DigitizeColorNotDetected(t *testing.T) {
	img := newChartImage(300, 220, nil, -1, 0, 110)
	eng := New(DefaultConfig(), quietLogger())

	_, err := eng.Digitize(img, fullBounds(img), nil)
	if err == nil {
		t.Fatal("expected error for image without a series line")
	}
	if !IsKind(err, KindColorNotDetected) {
		t.Errorf("error kind: got %v, want %v", err, KindColorNotDetected)
	}
}

func TestEngine_DigitizeInsufficientTrace(t *testing.T) {
	// A 9x8 magenta blob clears the mask-pixel floor but spans fewer
	// columns than MinValidPoints.
	img := newChartImage(300, 220, nil, -1, 0, 110)
	for x := 100; x < 109; x++ {
		for y := 60; y < 68; y++ {
			img.Set(x, y, magenta)
		}
	}
	eng := New(DefaultConfig(), quietLogger())

	_, err := eng.Digitize(img, fullBounds(img), nil)
	if err == nil {
		t.Fatal("expected error for blob narrower than the trace floor")
	}
	if !IsKind(err, KindInsufficientTrace) {
		t.Errorf("error kind: got %v, want %v", err, KindInsufficientTrace)
	}
}

func TestEngine_DigitizeZeroLineNotFound(t *testing.T) {
	img := newChartImage(300, 220, magenta, 59, 3, -1)
	eng := New(DefaultConfig(), quietLogger())

	_, err := eng.Digitize(img, fullBounds(img), nil)
	if err == nil {
		t.Fatal("expected error for chart without a zero line")
	}
	if !IsKind(err, KindZeroLineNotFound) {
		t.Errorf("error kind: got %v, want %v", err, KindZeroLineNotFound)
	}
}

func TestEngine_DigitizeOutOfRange(t *testing.T) {
	// A line 104px above the zero row maps to 31200 units, beyond the
	// 30000+500 tolerance, which is a calibration fault, not data.
	img := newChartImage(300, 220, magenta, 5, 3, 110)
	eng := New(DefaultConfig(), quietLogger())

	_, err := eng.Digitize(img, fullBounds(img), nil)
	if err == nil {
		t.Fatal("expected error for value outside the declared domain")
	}
	if !IsKind(err, KindOutOfRangeValue) {
		t.Errorf("error kind: got %v, want %v", err, KindOutOfRangeValue)
	}
}

func TestEngine_DigitizeRejectsBadBounds(t *testing.T) {
	img := newChartImage(300, 220, magenta, 59, 3, 110)
	eng := New(DefaultConfig(), quietLogger())

	tests := []struct {
		name   string
		bounds PlotBounds
	}{
		{"right beyond width", PlotBounds{Left: 0, Top: 0, Right: 400, Bottom: 220}},
		{"bottom beyond height", PlotBounds{Left: 0, Top: 0, Right: 300, Bottom: 400}},
		{"inverted horizontal", PlotBounds{Left: 200, Top: 0, Right: 100, Bottom: 220}},
		{"negative top", PlotBounds{Left: 0, Top: -1, Right: 300, Bottom: 220}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := eng.Digitize(img, tt.bounds, nil); err == nil {
				t.Error("expected bounds validation error")
			}
		})
	}
}

func TestEngine_NilLoggerDefaults(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	if eng == nil {
		t.Fatal("New returned nil")
	}
	if got := eng.Config().UnitsPerPixel; got != 300 {
		t.Errorf("config passthrough: got %v, want 300", got)
	}
}
