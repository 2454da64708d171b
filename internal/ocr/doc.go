// Package ocr reads text off chart screenshots using Tesseract.
//
// Its job here is narrow: recognizing axis tick labels so the calibrate
// package can turn them into pixel-row/value anchor pairs. The functions are
// general word-level OCR, though, and work on any image region.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Numeric Mode
//
// Tick labels are digits, signs, and thousands separators. Passing a
// character whitelist restricts Tesseract's alphabet accordingly, which
// sharply reduces misreads like "O" for "0" and "l" for "1" on small axis
// text. NumericWhitelist covers the label formats the calibrate package
// parses.
//
// # Coordinate System
//
// Bounding boxes use 0-based pixel coordinates with (0,0) at the top-left.
// Region extraction returns boxes adjusted to the original image, not the
// crop.
//
// # Temporary Files
//
// ExtractTextFromRegion creates a temporary PNG file for Tesseract
// processing, deleted after OCR completes.
package ocr
