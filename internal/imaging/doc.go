// Package imaging implements the edge filter: grayscale reduction followed by
// Canny edge detection on a fixed-layout 8-bit BGR image buffer.
//
// # Buffers
//
// A ColorImage is height x width x 3 bytes, row-major, no padding, channels in
// blue-green-red order. An EdgeMap is height x width bytes, each 0 or 255.
// NewColorImage builds a ColorImage from a host-style shape ([h, w, 3]) and a
// byte slice without copying; FromImage copies any image.Image into one.
//
// Input images are borrowed and never written to. Every EdgeMap returned by
// this package is newly allocated and owned by the caller.
//
// # Pipeline
//
//  1. Grayscale: Y = 0.114*B + 0.587*G + 0.299*R (BT.601), integer fixed point.
//  2. Canny: optional Gaussian smoothing, 3x3 Sobel gradients, non-maximum
//     suppression, double-threshold hysteresis. Default thresholds 100 and 200.
//
// Apply uses the defaults. NewFilter accepts Options for other thresholds, the
// L2 gradient, pre-smoothing, or the OpenCV backend (built with -tags opencv).
//
// # Thread Safety
//
// Filter values and the package-level functions are stateless and safe for
// concurrent use as long as each call has its own buffers. ImageCache is safe
// for concurrent use.
//
// # Error Handling
//
// Errors wrap one of the sentinels ErrInvalidShape, ErrEmptyImage,
// ErrInvalidThreshold or ErrProcessing; test for them with errors.Is. No
// partial results are returned.
package imaging
