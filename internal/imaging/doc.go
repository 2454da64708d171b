// Package imaging provides the image handling layer for the chart
// digitization server: cached loading, chart region cropping, plot area
// detection, and rendered verification artifacts.
//
// This package deals in pixels only. The numeric interpretation of those
// pixels (color classification, tracing, axis mapping) lives in the
// digitizer package; imaging supplies it with decoded images and crops and
// turns its outputs back into viewable overlays and previews.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//     (bottom-right)
//
// # Supported Formats
//
// Loading decodes PNG, JPEG, GIF, TIFF, BMP, and WebP. Screenshot pipelines
// mostly produce PNG and JPEG; the rest show up in archived captures. All
// rendered outputs are PNG.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining operations
// are stateless and can be called concurrently on different images.
//
// # Performance Considerations
//
// For repeated operations on the same chart, use ImageCache to avoid
// redundant disk reads and decodes. Cached images stay in memory until
// Evict() or Clear(); long-running servers should clean up after a batch.
package imaging
