package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor is used when Overlay is given an empty color.
const DefaultOverlayColor = "#FF0000"

// Overlay paints the edge pixels of edges on top of a copy of src.
//
// Parameters:
//   - src: The image the edges were computed from. Must have the same size as edges.
//   - edges: The edge map to draw.
//   - hexColor: Edge color as "#RGB" or "#RRGGBB". Empty means DefaultOverlayColor.
//   - opacity: How strongly edge pixels take the edge color, in (0, 1]. The
//     blend is done in CIE L*a*b* space so partially transparent edges keep
//     a perceptually even tint over light and dark backgrounds.
//
// Non-edge pixels are copied unchanged. src is not modified.
func Overlay(src image.Image, edges *EdgeMap, hexColor string, opacity float64) (*image.NRGBA, error) {
	if hexColor == "" {
		hexColor = DefaultOverlayColor
	}
	edgeColor, err := colorful.Hex(hexColor)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay color %q: %w", hexColor, err)
	}
	if opacity <= 0 || opacity > 1 {
		return nil, fmt.Errorf("overlay opacity must be in (0, 1], got %v", opacity)
	}

	bounds := src.Bounds()
	if bounds.Dx() != edges.Width || bounds.Dy() != edges.Height {
		return nil, fmt.Errorf("%w: image is %dx%d but edge map is %dx%d",
			ErrInvalidShape, bounds.Dx(), bounds.Dy(), edges.Width, edges.Height)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, edges.Width, edges.Height))
	for y := 0; y < edges.Height; y++ {
		for x := 0; x < edges.Width; x++ {
			orig := src.At(bounds.Min.X+x, bounds.Min.Y+y)
			if edges.At(x, y) != EdgeValue {
				dst.Set(x, y, orig)
				continue
			}
			base, ok := colorful.MakeColor(orig)
			if !ok {
				// Fully transparent source pixel: there is nothing to blend with.
				base = edgeColor
			}
			r, g, b := base.BlendLab(edgeColor, opacity).Clamped().RGB255()
			dst.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return dst, nil
}

// EncodeOverlay encodes an overlay image produced by Overlay as a base64 PNG
// result. EdgePixels is taken from edges.
func EncodeOverlay(img *image.NRGBA, edges *EdgeMap) (*EdgeDetectResult, error) {
	encoded, err := encodePNGBase64(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}
	b := img.Bounds()
	return &EdgeDetectResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		EdgePixels:  edges.EdgeCount(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
