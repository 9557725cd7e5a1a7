package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// EdgeValue is the value of an edge pixel in an EdgeMap. Non-edge pixels are 0.
const EdgeValue = 255

// tan(22.5°) and tan(67.5°) bound the four gradient-direction sectors used by
// non-maximum suppression.
var (
	tan22 = math.Tan(math.Pi / 8)
	tan67 = math.Tan(3 * math.Pi / 8)
)

// cannyParams holds the normalized inputs of a single Canny run.
type cannyParams struct {
	low, high  float64
	l2Gradient bool
	blurRadius float64
}

// canny runs Canny edge detection on a single-channel image.
//
// # Algorithm
//
//  1. Optional Gaussian smoothing (blurRadius > 0), done with bild's separable
//     Gaussian kernel. With blurRadius == 0 the gray image is used as is.
//
//  2. Gradient computation: 3x3 Sobel operators for X and Y on 0-255 samples,
//     with replicated borders.
//     magnitude = |Gx| + |Gy|, or sqrt(Gx² + Gy²) when l2Gradient is set
//
//  3. Non-maximum suppression: each pixel is compared with its two neighbours
//     along the gradient direction (horizontal, vertical, or one of the two
//     diagonals). A pixel survives only if it beats the "previous" neighbour
//     strictly and ties or beats the "next" one, so a flat ridge two pixels
//     wide collapses to a single pixel. Neighbours outside the image count as 0.
//
//  4. Hysteresis: magnitudes above high are strong edges, magnitudes above
//     low are weak edges. Weak edges are kept only if they are 8-connected,
//     directly or through other weak edges, to a strong edge.
//
// The returned map has the same size as gray and contains only 0 and EdgeValue.
func canny(gray *image.Gray, p cannyParams) *EdgeMap {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	src := grayToFloat(gray)
	if p.blurRadius > 0 {
		src = rgbaToFloat(blur.Gaussian(gray, p.blurRadius))
	}

	magnitude, gradX, gradY := sobel(src, width, height, p.l2Gradient)
	suppressed := suppressNonMaxima(magnitude, gradX, gradY, width, height)
	return hysteresis(suppressed, width, height, p.low, p.high)
}

// grayToFloat copies gray samples into a row-major float64 buffer.
func grayToFloat(gray *image.Gray) []float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			out[y*w+x] = float64(v)
		}
	}
	return out
}

// rgbaToFloat reads the red channel of a blurred gray image. All three color
// channels are equal because the blur input was gray.
func rgbaToFloat(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(img.Pix[off+x*4])
		}
	}
	return out
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel computes per-pixel gradients and their magnitude.
// Border pixels use clamped (replicated) edge values.
func sobel(src []float64, width, height int, l2 bool) (magnitude, gradX, gradY []float64) {
	n := width * height
	magnitude = make([]float64, n)
	gradX = make([]float64, n)
	gradY = make([]float64, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -1; kx <= 1; kx++ {
					px := clamp(x+kx, 0, width-1)
					v := src[py*width+px]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			i := y*width + x
			gradX[i] = gx
			gradY[i] = gy
			if l2 {
				magnitude[i] = math.Sqrt(gx*gx + gy*gy)
			} else {
				magnitude[i] = math.Abs(gx) + math.Abs(gy)
			}
		}
	}
	return magnitude, gradX, gradY
}

// suppressNonMaxima thins gradient ridges to single-pixel width.
func suppressNonMaxima(magnitude, gradX, gradY []float64, width, height int) []float64 {
	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y*width+x]
	}

	suppressed := make([]float64, len(magnitude))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag == 0 {
				continue
			}

			ax := math.Abs(gradX[i])
			ay := math.Abs(gradY[i])

			var keep bool
			switch {
			case ay <= ax*tan22:
				// Gradient is close to horizontal: compare left and right.
				keep = mag > at(x-1, y) && mag >= at(x+1, y)
			case ay > ax*tan67:
				// Close to vertical: compare above and below.
				keep = mag > at(x, y-1) && mag >= at(x, y+1)
			default:
				// Diagonal. Image y grows downward, so equal signs of Gx and Gy
				// point along the main diagonal.
				s := 1
				if (gradX[i] < 0) != (gradY[i] < 0) {
					s = -1
				}
				keep = mag > at(x-s, y-1) && mag > at(x+s, y+1)
			}

			if keep {
				suppressed[i] = mag
			}
		}
	}
	return suppressed
}

// hysteresis applies the double threshold and grows strong edges through
// connected weak edges.
func hysteresis(suppressed []float64, width, height int, low, high float64) *EdgeMap {
	edges := NewEdgeMap(width, height)

	stack := make([]int, 0, 64)
	for i, v := range suppressed {
		if v > high {
			edges.Pix[i] = EdgeValue
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for ky := -1; ky <= 1; ky++ {
			py := y + ky
			if py < 0 || py >= height {
				continue
			}
			for kx := -1; kx <= 1; kx++ {
				px := x + kx
				if px < 0 || px >= width || (kx == 0 && ky == 0) {
					continue
				}
				j := py*width + px
				if edges.Pix[j] == 0 && suppressed[j] > low {
					edges.Pix[j] = EdgeValue
					stack = append(stack, j)
				}
			}
		}
	}

	return edges
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
