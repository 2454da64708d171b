package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
)

// OverlayResult contains a chart image with the extracted trace drawn on
// top, for visual verification of a digitization run.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	PointCount  int    `json:"point_count"`
}

// TraceOverlay renders the traced series back onto the source image.
//
// Each traced point is drawn as a short vertical tick at its column;
// extrapolated points use a second color so synthesized data is visibly
// distinct from pixels that were actually read. The zero reference row is
// drawn as a horizontal line across the full width, and the maximum point
// gets a "col,row" coordinate label.
//
// traceColorHex and zeroColorHex accept "#RRGGBB" or "#RRGGBBAA"; unparsable
// values fall back to green and red respectively.
func TraceOverlay(img image.Image, traced, extrapolated []image.Point, zeroRow int, traceColorHex, zeroColorHex string) (*OverlayResult, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	traceColor, err := parseHexColor(traceColorHex)
	if err != nil {
		traceColor = color.RGBA{0, 200, 0, 255}
	}
	zeroColor, err := parseHexColor(zeroColorHex)
	if err != nil {
		zeroColor = color.RGBA{255, 0, 0, 255}
	}
	// Extrapolated ticks reuse the trace hue at half intensity.
	extrapColor := color.RGBA{traceColor.R / 2, traceColor.G / 2, traceColor.B / 2, traceColor.A}

	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	if zeroRow >= 0 && zeroRow < height {
		for x := 0; x < width; x++ {
			result.Set(x, zeroRow, zeroColor)
		}
	}

	for _, p := range traced {
		drawTick(result, p, traceColor)
	}
	for _, p := range extrapolated {
		drawTick(result, p, extrapColor)
	}

	if len(traced) > 0 {
		top := traced[0]
		for _, p := range traced[1:] {
			if p.Y < top.Y {
				top = p
			}
		}
		label := fmt.Sprintf("%d,%d", top.X, top.Y)
		drawLabel(result, top.X+4, top.Y-8, label,
			color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		PointCount:  len(traced) + len(extrapolated),
	}, nil
}

// drawTick marks one traced point as a 3px vertical tick.
func drawTick(img *image.RGBA, p image.Point, c color.RGBA) {
	bounds := img.Bounds()
	for dy := -1; dy <= 1; dy++ {
		y := p.Y + dy
		if p.X >= bounds.Min.X && p.X < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(p.X, y, c)
		}
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a small coordinate label at the given position using a
// built-in 3x5 pixel font (digits, comma, and minus only).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'-': {"000", "000", "111", "000", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
