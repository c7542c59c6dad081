// Package enhance implements the photo enhancement pipeline.
//
// A call to Process runs four fixed stages over a 3-channel 8-bit image:
//
//  1. Denoise: an edge-preserving bilateral filter applied to each of the
//     R, G and B planes independently.
//  2. Equalize: contrast-limited adaptive histogram equalization (CLAHE) on a
//     3x3 tile grid, again per plane. The planes are then merged back.
//  3. Saturation remap: the merged image is converted to 8-bit HSV, the S
//     channel is scaled by a factor and clamped to [1, 254], and the result is
//     converted back.
//  4. Sharpen: a k x k high-pass kernel (all -1, centre k²) is convolved over
//     every channel with edge replication.
//
// # Image Representation
//
// Any image.Image is accepted. It is normalised to an opaque *image.RGBA with
// bounds starting at (0,0); alpha is discarded. Channel planes are *image.Gray
// values with the same width and height. The pipeline never resizes.
//
// # Concurrency
//
// Stages 1 and 2 run as three independent goroutines, one per plane, joined
// before the saturation stage. Within the bilateral filter rows are further
// split across CPUs. No package-level mutable state exists; every call is
// reproducible from its (image, params) pair.
//
// # Errors
//
// Parameter violations wrap ErrInvalidParameter (see ParamError); planes of
// differing size reaching Merge wrap ErrDimensionMismatch. No partial image is
// ever returned alongside an error.
package enhance
