package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// NumericWhitelist is the character set for axis tick labels: digits,
// signs, decimal points, thousands separators, and the k/K/m/M magnitude
// suffixes some chart themes use.
const NumericWhitelist = "0123456789.,-+kKmM"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a recognized word with its location and OCR
// confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// Result contains the complete output of a text extraction.
type Result struct {
	// FullText is all recognized text as a single string with original
	// spacing and newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes and
	// confidence scores. May be empty if bounding box extraction fails;
	// the text is still in FullText.
	Regions []TextRegion `json:"regions"`
}

// ExtractText performs OCR on an entire image file.
//
// language is a Tesseract language code ("eng" for the charts this server
// reads); the corresponding language data must be installed. whitelist, when
// non-empty, restricts recognition to those characters - pass
// NumericWhitelist when reading tick labels, or "" for unrestricted text.
//
// Word-level regions use Tesseract's RIL_WORD iterator; empty words are
// filtered out.
func ExtractText(imagePath, language, whitelist string) (*Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if whitelist != "" {
		if err := client.SetWhitelist(whitelist); err != nil {
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &Result{
			FullText: text,
			Regions:  []TextRegion{},
		}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{
		FullText: text,
		Regions:  regions,
	}, nil
}

// ExtractTextFromRegion performs OCR on a rectangular region of an
// in-memory image. (x1,y1) is inclusive, (x2,y2) exclusive.
//
// The region is cropped, written to a temporary PNG (Tesseract wants a file
// path), and recognized; the temporary file is removed afterwards. Returned
// bounding boxes are adjusted back to original-image coordinates: a word at
// (10,20) inside a region starting at (100,50) comes back as (110,70).
func ExtractTextFromRegion(img image.Image, x1, y1, x2, y2 int, language, whitelist string) (*Result, error) {
	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	tmpFile, err := os.CreateTemp("", "ocr-region-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, cropped); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	result, err := ExtractText(tmpPath, language, whitelist)
	if err != nil {
		return nil, err
	}

	for i := range result.Regions {
		result.Regions[i].Bounds.X1 += x1
		result.Regions[i].Bounds.Y1 += y1
		result.Regions[i].Bounds.X2 += x1
		result.Regions[i].Bounds.Y2 += y1
	}

	return result, nil
}
