package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

// solidBGR creates an h x w BGR buffer filled with one color.
func solidBGR(h, w int, b, g, r byte) *ColorImage {
	pix := make([]byte, h*w*Channels)
	for i := 0; i < len(pix); i += Channels {
		pix[i], pix[i+1], pix[i+2] = b, g, r
	}
	return &ColorImage{Height: h, Width: w, Pix: pix}
}

// splitBGR creates an h x w image whose columns left of split are one color
// and the rest another.
func splitBGR(h, w, split int, left, right [3]byte) *ColorImage {
	img := solidBGR(h, w, 0, 0, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := right
			if x < split {
				c = left
			}
			copy(img.Pix[(y*w+x)*Channels:], c[:])
		}
	}
	return img
}

func TestNewColorImage(t *testing.T) {
	pix := make([]byte, 4*5*3)
	img, err := NewColorImage([]int{4, 5, 3}, pix)
	if err != nil {
		t.Fatalf("NewColorImage failed: %v", err)
	}
	if img.Height != 4 || img.Width != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x4", img.Width, img.Height)
	}
	if &img.Pix[0] != &pix[0] {
		t.Error("NewColorImage should borrow the buffer, not copy it")
	}
}

func TestNewColorImage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		shape   []int
		pixLen  int
		wantErr error
	}{
		{"two dims", []int{4, 5}, 20, ErrInvalidShape},
		{"four dims", []int{4, 5, 3, 1}, 60, ErrInvalidShape},
		{"one channel", []int{4, 5, 1}, 20, ErrInvalidShape},
		{"four channels", []int{4, 5, 4}, 80, ErrInvalidShape},
		{"zero height", []int{0, 5, 3}, 0, ErrEmptyImage},
		{"zero width", []int{4, 0, 3}, 0, ErrEmptyImage},
		{"negative height", []int{-1, 5, 3}, 0, ErrInvalidShape},
		{"short buffer", []int{4, 5, 3}, 59, ErrInvalidShape},
		{"long buffer", []int{4, 5, 3}, 61, ErrInvalidShape},
		{"overflowing width", []int{7, math.MaxInt/7 + 1, 3}, 3, ErrInvalidShape},
		{"overflowing height", []int{math.MaxInt/2 + 1, 2, 3}, 3, ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColorImage(tt.shape, make([]byte, tt.pixLen))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// wrappingWidth returns a width w for which 7*w*3 wraps around to exactly 3
// in 64-bit int arithmetic.
func wrappingWidth(t *testing.T) int {
	t.Helper()
	if math.MaxInt < 1<<62 {
		t.Skip("requires 64-bit int")
	}
	var w uint64 = 0x6DB6DB6DB6DB6DB7
	return int(w)
}

func TestNewColorImage_SizeOverflow(t *testing.T) {
	w := wrappingWidth(t)

	_, err := NewColorImage([]int{7, w, 3}, []byte{1, 2, 3})
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("got %v, want ErrInvalidShape", err)
	}

	_, _, err = ApplyBuffer([]int{7, w, 3}, []byte{1, 2, 3}, DefaultOptions())
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("ApplyBuffer: got %v, want ErrInvalidShape", err)
	}
}

func TestColorImage_ValidateNil(t *testing.T) {
	var img *ColorImage
	if err := img.Validate(); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("nil image: got %v, want ErrInvalidShape", err)
	}
}

func TestFromImage_ChannelOrder(t *testing.T) {
	tests := []struct {
		name string
		img  func() image.Image
	}{
		{"RGBA", func() image.Image {
			img := image.NewRGBA(image.Rect(0, 0, 2, 1))
			img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
			img.Set(1, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})
			return img
		}},
		{"NRGBA", func() image.Image {
			img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
			img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
			img.Set(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
			return img
		}},
		{"NRGBA offset bounds", func() image.Image {
			img := image.NewNRGBA(image.Rect(5, 7, 7, 8))
			img.Set(5, 7, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
			img.Set(6, 7, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
			return img
		}},
	}

	want := []byte{30, 20, 10, 50, 100, 200}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromImage(tt.img())
			if err != nil {
				t.Fatalf("FromImage failed: %v", err)
			}
			if got.Width != 2 || got.Height != 1 {
				t.Fatalf("dimensions: got %dx%d, want 2x1", got.Width, got.Height)
			}
			for i := range want {
				if got.Pix[i] != want[i] {
					t.Errorf("Pix: got %v, want %v", got.Pix, want)
					break
				}
			}
		})
	}
}

func TestFromImage_Empty(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 0, 10)))
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("got %v, want ErrEmptyImage", err)
	}
	if _, err := FromImage(nil); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("nil image: got %v, want ErrInvalidShape", err)
	}
}

func TestColorImage_ImageRoundTrip(t *testing.T) {
	src := splitBGR(3, 4, 2, [3]byte{1, 2, 3}, [3]byte{250, 128, 7})

	back, err := FromImage(src.Image())
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if string(back.Pix) != string(src.Pix) {
		t.Errorf("round trip changed pixels:\n got %v\nwant %v", back.Pix, src.Pix)
	}
}

func TestEdgeMap_Helpers(t *testing.T) {
	e := NewEdgeMap(3, 2)
	e.Pix[1] = EdgeValue
	e.Pix[5] = EdgeValue

	if got := e.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount: got %d, want 2", got)
	}
	if e.At(1, 0) != EdgeValue || e.At(2, 1) != EdgeValue || e.At(0, 0) != 0 {
		t.Error("At returned unexpected values")
	}
	if s := e.Shape(); len(s) != 2 || s[0] != 2 || s[1] != 3 {
		t.Errorf("Shape: got %v, want [2 3]", s)
	}

	g := e.Image()
	if g.Bounds().Dx() != 3 || g.Bounds().Dy() != 2 {
		t.Errorf("Image bounds: got %v", g.Bounds())
	}
	if g.GrayAt(1, 0).Y != 255 {
		t.Error("Image should carry edge values")
	}
	g.Pix[0] = 7
	if e.Pix[0] != 0 {
		t.Error("Image must return a copy")
	}
}
