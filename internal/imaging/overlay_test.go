package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestTraceOverlay(t *testing.T) {
	img := chartFixtureImage(100, 80)
	traced := []image.Point{{10, 40}, {11, 40}, {12, 41}}
	extrapolated := []image.Point{{90, 45}, {91, 45}}

	result, err := TraceOverlay(img, traced, extrapolated, 60, "#00CC00", "#FF0000")
	if err != nil {
		t.Fatalf("TraceOverlay failed: %v", err)
	}
	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", result.Width, result.Height)
	}
	if result.PointCount != 5 {
		t.Errorf("point count: got %d, want 5", result.PointCount)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG payload: %v", err)
	}

	// The zero row must be painted across the width.
	r, g, b, _ := decoded.At(50, 60).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("zero row pixel: got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, b>>8)
	}

	// A traced point must carry the trace color.
	r, g, b, _ = decoded.At(10, 40).RGBA()
	if r>>8 != 0 || g>>8 != 204 || b>>8 != 0 {
		t.Errorf("trace pixel: got (%d,%d,%d), want (0,204,0)", r>>8, g>>8, b>>8)
	}
}

func TestTraceOverlay_BadColorsFallBack(t *testing.T) {
	img := chartFixtureImage(50, 50)

	result, err := TraceOverlay(img, []image.Point{{25, 25}}, nil, 40, "chartreuse", "")
	if err != nil {
		t.Fatalf("TraceOverlay failed: %v", err)
	}
	if result.PointCount != 1 {
		t.Errorf("point count: got %d, want 1", result.PointCount)
	}
}

func TestTraceOverlay_ZeroRowOutsideImageSkipped(t *testing.T) {
	img := chartFixtureImage(50, 50)

	if _, err := TraceOverlay(img, nil, nil, 200, "#00FF00", "#FF0000"); err != nil {
		t.Fatalf("TraceOverlay failed: %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseHexColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
