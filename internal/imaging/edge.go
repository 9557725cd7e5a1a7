package imaging

import (
	"fmt"
	"image"
)

// EdgeDetect runs the edge filter on a decoded image and returns the edge map
// as a base64 PNG.
//
// This is a convenience wrapper for callers holding an image.Image (for
// example one returned by ImageCache.Load): the image is copied into a BGR
// ColorImage, filtered with opts, and encoded.
//
// Parameters:
//   - img: Source image (color or grayscale; alpha is ignored).
//   - opts: Filter options. Use DefaultOptions() for thresholds 100 and 200.
//
// # Threshold Selection
//
// Thresholds are in Sobel gradient units on 0-255 gray samples; a hard
// black/white step has an L1 magnitude of 1020. Lower thresholds detect more
// edges but increase noise. Higher thresholds produce cleaner results but may
// miss faint edges.
//
// Recommended starting points:
//   - Photographs: low=100, high=200 (the default)
//   - Clean diagrams: low=50, high=150
//   - Noisy images: low=75, high=175 with BlurRadius 1-2
func EdgeDetect(img image.Image, opts Options) (*EdgeDetectResult, error) {
	edges, err := DetectEdges(img, opts)
	if err != nil {
		return nil, err
	}
	return EncodeEdgeMap(edges)
}

// DetectEdges copies img into a ColorImage and filters it with opts.
func DetectEdges(img image.Image, opts Options) (*EdgeMap, error) {
	src, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	f, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}
	edges, err := f.Apply(src)
	if err != nil {
		return nil, fmt.Errorf("edge detection failed: %w", err)
	}
	return edges, nil
}
