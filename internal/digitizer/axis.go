package digitizer

import (
	"math"
)

// AxisMapper is the pure pixel<->value linear mapping built from the zero
// row and a scale in domain units per pixel. Rows above the zero row map to
// positive values.
type AxisMapper struct {
	ZeroRow   float64
	Scale     float64
	DomainMin float64
	DomainMax float64
	Tolerance float64
}

// NewAxisMapper builds a mapper from the located zero row and the calibrated
// constant scale.
func NewAxisMapper(zeroRow float64, cfg Config) AxisMapper {
	return AxisMapper{
		ZeroRow:   zeroRow,
		Scale:     cfg.UnitsPerPixel,
		DomainMin: cfg.DomainMin,
		DomainMax: cfg.DomainMax,
		Tolerance: cfg.DomainTolerance,
	}
}

// NewAxisMapperFromAnchors derives the scale from two known gridlines:
// scale = domain span / pixel span. The anchors must not coincide.
func NewAxisMapperFromAnchors(zeroRow float64, anchors AxisAnchors, cfg Config) (AxisMapper, error) {
	pixelSpan := anchors.Row1 - anchors.Row2
	if math.Abs(pixelSpan) < 1e-9 {
		return AxisMapper{}, failf(KindOutOfRangeValue,
			"axis anchors coincide at row %.2f", anchors.Row1)
	}
	// Rows grow downward while values grow upward, so the higher-value
	// anchor sits at the smaller row and the spans carry opposite signs.
	scale := (anchors.Value2 - anchors.Value1) / pixelSpan
	if scale <= 0 {
		return AxisMapper{}, failf(KindOutOfRangeValue,
			"axis anchors imply non-positive scale %.4f", scale)
	}
	m := NewAxisMapper(zeroRow, cfg)
	m.Scale = scale
	return m, nil
}

// Value maps a pixel row to a domain value, clamped to the declared range.
// Exceeding the range by more than the tolerance is a fatal calibration
// error, never silently clamped away.
func (m AxisMapper) Value(y float64) (float64, error) {
	v := (m.ZeroRow - y) * m.Scale
	if v > m.DomainMax+m.Tolerance || v < m.DomainMin-m.Tolerance {
		return 0, failf(KindOutOfRangeValue,
			"row %.2f maps to %.1f, outside domain [%.1f, %.1f] by more than %.1f",
			y, v, m.DomainMin, m.DomainMax, m.Tolerance)
	}
	return clampValue(v, m.DomainMin, m.DomainMax), nil
}

// Pixel maps a domain value back to a pixel row.
func (m AxisMapper) Pixel(v float64) float64 {
	return m.ZeroRow - v/m.Scale
}

func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
