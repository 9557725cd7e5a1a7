package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// EdgeDetectResult contains an edge map encoded as base64 PNG.
//
// The image is grayscale with edges in white (255) and everything else black (0).
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EncodeEdgeMap encodes an edge map as a base64 PNG result.
func EncodeEdgeMap(edges *EdgeMap) (*EdgeDetectResult, error) {
	encoded, err := encodePNGBase64(edges.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}
	return &EdgeDetectResult{
		Width:       edges.Width,
		Height:      edges.Height,
		EdgePixels:  edges.EdgeCount(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// SaveEdgeMap writes the edge map to path. The file format is chosen from the
// extension (png, jpg, gif, tif, bmp); PNG is recommended since it is lossless.
func SaveEdgeMap(edges *EdgeMap, path string) error {
	return SaveImage(edges.Image(), path)
}

// SaveImage writes img to path in the format implied by its extension.
func SaveImage(img image.Image, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("cannot save %s: %w", path, err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
