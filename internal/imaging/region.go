package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped chart region encoded as base64 PNG.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts a rectangular region from a chart image, optionally
// rescaled. (x1,y1) is inclusive, (x2,y2) exclusive. A scale other than 1.0
// resizes the crop with Lanczos resampling, which keeps thin polylines and
// tick labels legible.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropChartRegion extracts a named region of a chart screenshot.
//
// The names encode the layout conventions of the charts this server reads:
// the y-axis labels occupy roughly the left 15% of the capture, the x-axis
// labels the bottom 12%, and the legend the top strip. "plot" is the
// complement of all three and is the region normally handed to the
// digitizer.
func CropChartRegion(img image.Image, region string, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	axisW := w * 15 / 100
	axisH := h * 12 / 100
	legendH := h * 8 / 100

	var x1, y1, x2, y2 int

	switch region {
	case "plot":
		x1, y1, x2, y2 = axisW, legendH, w, h-axisH
	case "y-axis":
		x1, y1, x2, y2 = 0, 0, axisW, h-axisH
	case "x-axis":
		x1, y1, x2, y2 = axisW, h-axisH, w, h
	case "legend":
		x1, y1, x2, y2 = 0, 0, w, legendH
	case "left-half":
		x1, y1, x2, y2 = 0, 0, w/2, h
	case "right-half":
		x1, y1, x2, y2 = w/2, 0, w, h
	case "full":
		x1, y1, x2, y2 = 0, 0, w, h
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}

	return Crop(img, x1, y1, x2, y2, scale)
}
