package digitizer

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorProfile is one named candidate series color with its HSV membership
// bounds. Hue is in degrees [0,360); a HueMin greater than HueMax wraps
// through 0 (used for red). Saturation and value are in [0,1].
type ColorProfile struct {
	Name   string
	HueMin float64
	HueMax float64
	SatMin float64
	ValMin float64
}

// Unknown is the profile returned when classification fails.
var Unknown = ColorProfile{Name: "unknown"}

// DefaultPalette returns the candidate profiles in priority order. Earlier
// entries win membership-count ties.
func DefaultPalette() []ColorProfile {
	return []ColorProfile{
		{Name: "pink", HueMin: 320, HueMax: 345, SatMin: 0.25, ValMin: 0.55},
		{Name: "magenta", HueMin: 285, HueMax: 320, SatMin: 0.40, ValMin: 0.40},
		{Name: "red", HueMin: 345, HueMax: 15, SatMin: 0.45, ValMin: 0.35},
		{Name: "blue", HueMin: 200, HueMax: 250, SatMin: 0.35, ValMin: 0.35},
		{Name: "green", HueMin: 90, HueMax: 160, SatMin: 0.30, ValMin: 0.30},
		{Name: "cyan", HueMin: 160, HueMax: 200, SatMin: 0.35, ValMin: 0.40},
		{Name: "yellow", HueMin: 45, HueMax: 70, SatMin: 0.40, ValMin: 0.55},
		{Name: "orange", HueMin: 15, HueMax: 45, SatMin: 0.45, ValMin: 0.45},
		{Name: "purple", HueMin: 250, HueMax: 285, SatMin: 0.30, ValMin: 0.30},
	}
}

// Contains reports whether the HSV triple is inside the profile's bounds.
func (p ColorProfile) Contains(h, s, v float64) bool {
	if s < p.SatMin || v < p.ValMin {
		return false
	}
	if p.HueMin <= p.HueMax {
		return h >= p.HueMin && h <= p.HueMax
	}
	// Wrapping range, e.g. red spanning 345..360 and 0..15.
	return h >= p.HueMin || h <= p.HueMax
}

// Relaxed widens the profile's bounds by the given factor. Used only for the
// right-edge recovery pass; factor 1.0 returns the profile unchanged.
func (p ColorProfile) Relaxed(factor float64) ColorProfile {
	if factor <= 1.0 {
		return p
	}
	span := p.HueMax - p.HueMin
	if p.HueMin > p.HueMax {
		span = (360 - p.HueMin) + p.HueMax
	}
	grow := span * (factor - 1) / 2
	r := p
	r.HueMin = wrapHue(p.HueMin - grow)
	r.HueMax = wrapHue(p.HueMax + grow)
	r.SatMin = p.SatMin / factor
	r.ValMin = p.ValMin / factor
	return r
}

func wrapHue(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return h
}

// Mask is a binary pixel-membership grid covering a full image.
type Mask struct {
	W, H int
	bits []bool
}

// NewMask returns an all-false mask of the given size.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, bits: make([]bool, w*h)}
}

// At reports the mask bit at (x, y); out-of-bounds reads are false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return false
	}
	return m.bits[y*m.W+x]
}

// Set writes the mask bit at (x, y); out-of-bounds writes are dropped.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	m.bits[y*m.W+x] = v
}

// Count returns the number of set bits.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// pixelHSV converts one pixel to HSV. ok is false for fully transparent
// pixels, which never belong to any profile.
func pixelHSV(img image.Image, x, y int) (h, s, v float64, ok bool) {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return 0, 0, 0, false
	}
	h, s, v = c.Hsv()
	return h, s, v, true
}

// ClassifySeriesColor picks the active series color inside the plot bounds
// and builds the full-image membership mask for it.
//
// Member pixels are counted per candidate profile on a lightly blurred copy
// of the plot region; the highest count wins, with ties resolved by palette
// order. The winning profile's bounds are then applied to the whole
// (unblurred) image, and a small morphological close+open removes speckle.
//
// Returns Unknown and a KindColorNotDetected error when no profile reaches
// cfg.MinMaskPixels. Callers must treat that as fatal.
func ClassifySeriesColor(img image.Image, bounds PlotBounds, cfg Config) (ColorProfile, *Mask, error) {
	counting := img
	if cfg.BlurRadius > 0 {
		counting = blur.Gaussian(img, cfg.BlurRadius)
	}
	cb := counting.Bounds()

	counts := make([]int, len(cfg.Palette))
	for y := bounds.Top; y < bounds.Bottom; y++ {
		for x := bounds.Left; x < bounds.Right; x++ {
			h, s, v, ok := pixelHSV(counting, x+cb.Min.X, y+cb.Min.Y)
			if !ok {
				continue
			}
			for i, p := range cfg.Palette {
				if p.Contains(h, s, v) {
					counts[i]++
				}
			}
		}
	}

	best := -1
	for i := range cfg.Palette {
		if best < 0 || counts[i] > counts[best] {
			best = i
		}
	}
	if best < 0 || counts[best] < cfg.MinMaskPixels {
		return Unknown, NewMask(0, 0), failf(KindColorNotDetected,
			"no palette profile reached %d member pixels in plot bounds", cfg.MinMaskPixels)
	}
	winner := cfg.Palette[best]

	ib := img.Bounds()
	mask := NewMask(ib.Dx(), ib.Dy())
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			h, s, v, ok := pixelHSV(img, x+ib.Min.X, y+ib.Min.Y)
			if ok && winner.Contains(h, s, v) {
				mask.Set(x, y, true)
			}
		}
	}

	// Close small gaps, then remove speckle. The open pass is a
	// neighbor-count despeckle rather than a strict erode: a strict 3x3
	// open would erase one-pixel strokes, which thin chart lines often are.
	for i := 0; i < cfg.MorphIterations; i++ {
		mask = dilate(mask)
		mask = erode(mask)
	}
	for i := 0; i < cfg.MorphIterations; i++ {
		mask = despeckle(mask)
	}

	return winner, mask, nil
}

// dilate grows set regions by one pixel in all 8 directions.
func dilate(m *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.At(x, y) {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					out.Set(x+dx, y+dy, true)
				}
			}
		}
	}
	return out
}

// despeckle clears set pixels with fewer than two set neighbors. Isolated
// specks go away; line strokes, whose pixels always have two run neighbors,
// survive.
func despeckle(m *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.At(x, y) {
				continue
			}
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if m.At(x+dx, y+dy) {
						n++
					}
				}
			}
			out.Set(x, y, n >= 2)
		}
	}
	return out
}

// erode keeps only pixels whose full 3x3 neighborhood is set. Image-border
// neighbors count as unset, so an erode pass also clears the outer frame.
func erode(m *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.At(x, y) {
				continue
			}
			keep := true
			for dy := -1; dy <= 1 && keep; dy++ {
				for dx := -1; dx <= 1 && keep; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= m.W || ny < 0 || ny >= m.H {
						keep = false
					} else if !m.At(nx, ny) {
						keep = false
					}
				}
			}
			out.Set(x, y, keep)
		}
	}
	return out
}
