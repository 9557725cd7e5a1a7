package imaging

import (
	"fmt"
	"image"
	"math"
)

// Channels is the number of interleaved bytes per pixel in a ColorImage.
const Channels = 3

// ColorImage is an 8-bit, 3-channel image stored row-major with no row padding.
// Channels are interleaved in blue, green, red order, so the pixel at (x, y)
// occupies Pix[(y*Width+x)*3 : (y*Width+x)*3+3].
//
// A ColorImage handed to Apply is only read, never modified.
type ColorImage struct {
	Height int
	Width  int
	Pix    []byte
}

// EdgeMap is a single-channel 8-bit edge image. Every value is 0 (no edge) or
// 255 (edge), and the pixel at (x, y) is Pix[y*Width+x].
type EdgeMap struct {
	Height int
	Width  int
	Pix    []byte
}

// NewColorImage wraps a host-described buffer as a ColorImage.
//
// The shape is given the way array hosts describe it: [height, width, channels].
// The buffer is borrowed, not copied; the caller must not modify it while the
// returned image is in use.
//
// Returns ErrInvalidShape if the shape is not three-dimensional, the channel
// count is not 3, a dimension is negative, or len(pix) does not match the
// shape. Returns ErrEmptyImage if height or width is zero.
func NewColorImage(shape []int, pix []byte) (*ColorImage, error) {
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: want 3 dimensions [height, width, 3], got %d", ErrInvalidShape, len(shape))
	}
	h, w, c := shape[0], shape[1], shape[2]
	if c != Channels {
		return nil, fmt.Errorf("%w: want %d channels, got %d", ErrInvalidShape, Channels, c)
	}
	img := &ColorImage{Height: h, Width: w, Pix: pix}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate checks the dimensions and buffer length of the image.
func (m *ColorImage) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidShape)
	}
	if m.Height < 0 || m.Width < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidShape, m.Width, m.Height)
	}
	if m.Height == 0 || m.Width == 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, m.Width, m.Height)
	}
	if m.Width > math.MaxInt/Channels/m.Height {
		return fmt.Errorf("%w: %dx%d pixels overflow the buffer size", ErrInvalidShape, m.Width, m.Height)
	}
	if want := m.Height * m.Width * Channels; len(m.Pix) != want {
		return fmt.Errorf("%w: buffer holds %d bytes, shape [%d, %d, %d] needs %d",
			ErrInvalidShape, len(m.Pix), m.Height, m.Width, Channels, want)
	}
	return nil
}

// Shape returns the image shape as [height, width, channels].
func (m *ColorImage) Shape() []int {
	return []int{m.Height, m.Width, Channels}
}

// FromImage copies any image.Image into a newly allocated BGR ColorImage.
// Alpha is dropped; 16-bit samples are reduced to their high byte.
func FromImage(img image.Image) (*ColorImage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidShape)
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}

	out := &ColorImage{Height: height, Width: width, Pix: make([]byte, width*height*Channels)}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			dst := out.Pix[y*width*Channels:]
			for x := 0; x < width; x++ {
				dst[x*3+0] = row[x*4+2]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+0]
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				i := (y*width + x) * Channels
				out.Pix[i+0] = uint8(b >> 8)
				out.Pix[i+1] = uint8(g >> 8)
				out.Pix[i+2] = uint8(r >> 8)
			}
		}
	}

	return out, nil
}

// Image returns a copy of the color image as an *image.NRGBA with opaque alpha.
func (m *ColorImage) Image() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, j := 0, 0; i < len(m.Pix); i, j = i+Channels, j+4 {
		dst.Pix[j+0] = m.Pix[i+2]
		dst.Pix[j+1] = m.Pix[i+1]
		dst.Pix[j+2] = m.Pix[i+0]
		dst.Pix[j+3] = 0xff
	}
	return dst
}

// NewEdgeMap allocates an all-zero edge map.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{Height: height, Width: width, Pix: make([]byte, width*height)}
}

// Image returns a copy of the edge map as an *image.Gray.
func (e *EdgeMap) Image() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, e.Width, e.Height))
	copy(g.Pix, e.Pix)
	return g
}

// At reports the value at (x, y).
func (e *EdgeMap) At(x, y int) uint8 {
	return e.Pix[y*e.Width+x]
}

// Shape returns the edge map shape as [height, width].
func (e *EdgeMap) Shape() []int {
	return []int{e.Height, e.Width}
}

// EdgeCount returns the number of edge (255) pixels.
func (e *EdgeMap) EdgeCount() int {
	n := 0
	for _, v := range e.Pix {
		if v == EdgeValue {
			n++
		}
	}
	return n
}
