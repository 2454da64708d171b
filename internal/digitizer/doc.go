// Package digitizer converts a cropped raster image of a line chart into a
// structured numeric series and derived features.
//
// Given a tightly cropped plot area containing one colored polyline against a
// background with a horizontal zero-reference line, the pipeline:
//
//  1. Classifies the plotted series color and builds a pixel membership mask
//  2. Locates the pixel row representing domain value 0
//  3. Builds a linear pixel-to-value mapping from the zero row and scale
//  4. Traces the polyline column by column into raw pixel samples
//  5. Rejects spikes and smooths the mapped values, protecting endpoints and
//     the current maximum
//  6. Extracts named features (max, min, terminal value, first significant rise)
//
// # Coordinate System
//
// All pixel coordinates are 0-based with origin at the top-left corner.
// Y increases downward, so values above the zero row map to positive domain
// values: value(y) = (zeroRow - y) * scale.
//
// # Purity and Concurrency
//
// The engine performs no file, network, or rendering I/O. Each Digitize call
// builds all state fresh; an Engine is safe for concurrent use across images
// because the only shared data is the immutable Config and the injected
// logger. Parallelism over many charts is the caller's concern.
//
// # Error Taxonomy
//
// Fatal conditions (undetectable color, missing zero line, too few traced
// points, out-of-range values signalling miscalibration) abort the extraction
// with a typed ExtractionError; they are never silently degraded into partial
// data. Degraded-but-usable conditions (trailing-edge extrapolation) annotate
// a successful Result instead.
package digitizer
