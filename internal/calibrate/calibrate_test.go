package calibrate

import (
	"math"
	"testing"

	"github.com/cliffwatch/chart-digitizer/internal/ocr"
)

func TestParseTickValue(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"15000", 15000, false},
		{"15,000", 15000, false},
		{"-5,000", -5000, false},
		{"+2500", 2500, false},
		{"0", 0, false},
		{"15k", 15000, false},
		{"15K", 15000, false},
		{"1.5M", 1500000, false},
		{"-2.5k", -2500, false},
		{" 300 ", 300, false},
		{"", 0, true},
		{"k", 0, true},
		{"abc", 0, true},
		{"12..5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTickValue(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTickValue failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicksFromRegions(t *testing.T) {
	regions := []ocr.TextRegion{
		{Text: "15,000", Confidence: 0.95, Bounds: ocr.Bounds{X1: 2, Y1: 48, X2: 40, Y2: 60}},
		{Text: "0", Confidence: 0.90, Bounds: ocr.Bounds{X1: 2, Y1: 148, X2: 12, Y2: 160}},
		{Text: "garbled", Confidence: 0.95, Bounds: ocr.Bounds{X1: 2, Y1: 90, X2: 40, Y2: 100}},
		{Text: "5000", Confidence: 0.30, Bounds: ocr.Bounds{X1: 2, Y1: 110, X2: 40, Y2: 120}},
	}

	ticks := TicksFromRegions(regions, 0.60)

	if len(ticks) != 2 {
		t.Fatalf("ticks: got %d, want 2 (unparsable and low-confidence dropped)", len(ticks))
	}
	if ticks[0].Value != 15000 || math.Abs(ticks[0].Row-54) > 0.01 {
		t.Errorf("tick 0: got (%v, %v), want (15000, 54)", ticks[0].Value, ticks[0].Row)
	}
	if ticks[1].Value != 0 || math.Abs(ticks[1].Row-154) > 0.01 {
		t.Errorf("tick 1: got (%v, %v), want (0, 154)", ticks[1].Value, ticks[1].Row)
	}
}

func TestAnchorsFromTicks(t *testing.T) {
	ticks := []Tick{
		{Row: 54, Value: 15000, Confidence: 0.95},
		{Row: 104, Value: 7500, Confidence: 0.90},
		{Row: 154, Value: 0, Confidence: 0.90},
	}

	anchors, err := AnchorsFromTicks(ticks)
	if err != nil {
		t.Fatalf("AnchorsFromTicks failed: %v", err)
	}

	// The outermost pair (54, 154) spans the most pixels.
	if anchors.Row1 != 54 || anchors.Value1 != 15000 {
		t.Errorf("anchor 1: got (%v, %v), want (54, 15000)", anchors.Row1, anchors.Value1)
	}
	if anchors.Row2 != 154 || anchors.Value2 != 0 {
		t.Errorf("anchor 2: got (%v, %v), want (154, 0)", anchors.Row2, anchors.Value2)
	}
}

func TestAnchorsFromTicks_Errors(t *testing.T) {
	tests := []struct {
		name  string
		ticks []Tick
	}{
		{"no ticks", nil},
		{"single tick", []Tick{{Row: 54, Value: 15000}}},
		{"same row", []Tick{{Row: 54, Value: 15000}, {Row: 54, Value: 0}}},
		{"same value", []Tick{{Row: 54, Value: 5000}, {Row: 154, Value: 5000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AnchorsFromTicks(tt.ticks); err == nil {
				t.Error("expected error")
			}
		})
	}
}
