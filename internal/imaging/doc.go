// Package imaging holds the file-level image handling around the enhancement
// pipeline: decoding and caching source images, exporting results, building
// previews, sampling colours and measuring image quality.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner of the
// image, regardless of the image's bounds origin. Regions are named
// ("top-left", "center", ...) and resolve to half-open rectangles.
//
// # Formats
//
// Sources may be PNG, JPEG, GIF, BMP, TIFF or WebP. JPEG EXIF orientation is
// applied on load. Results are exported as JPEG (configurable quality) and
// lossless PNG, named <name>_processed.jpg and <name>_processed.png.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
//
// # Quality Metrics
//
// Measure and Compare report no-reference metrics (gradient sharpness, RMS
// contrast, mean saturation, per-channel histogram statistics) and the mean
// CIEDE2000 difference between two renditions, so callers can judge what a
// parameter change did without looking at the pixels.
package imaging
