package imaging

import "image"

// Luma weights for B, G and R in 14-bit fixed point. They sum to 1<<14 and
// correspond to 0.114, 0.587 and 0.299 (ITU-R BT.601).
const (
	lumaShift = 14
	lumaB     = 1868
	lumaG     = 9617
	lumaR     = 4899
	lumaRound = 1 << (lumaShift - 1)
)

// Grayscale reduces a BGR image to a single luma channel:
//
//	Y = 0.114*B + 0.587*G + 0.299*R
//
// The weighted sum is computed in integer fixed point and rounded to nearest,
// so the result is exact and identical on every platform. The input is not
// modified; the returned image is newly allocated.
func Grayscale(src *ColorImage) (*image.Gray, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return grayscale(src), nil
}

func grayscale(src *ColorImage) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, src.Width, src.Height))
	for i, j := 0, 0; i < len(src.Pix); i, j = i+Channels, j+1 {
		b := uint32(src.Pix[i])
		g := uint32(src.Pix[i+1])
		r := uint32(src.Pix[i+2])
		gray.Pix[j] = uint8((b*lumaB + g*lumaG + r*lumaR + lumaRound) >> lumaShift)
	}
	return gray
}
