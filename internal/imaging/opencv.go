//go:build opencv

package imaging

import (
	"fmt"

	"gocv.io/x/gocv"
)

// OpenCVAvailable reports whether the OpenCV backend is compiled in.
const OpenCVAvailable = true

// applyOpenCV runs cvtColor(BGR2GRAY) and Canny through gocv. The input Mat
// wraps src.Pix without copying and is closed before returning; the result is
// copied out of OpenCV memory into a new EdgeMap.
func applyOpenCV(src *ColorImage, opts Options) (*EdgeMap, error) {
	img, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC3, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap buffer as Mat: %w", err)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(img, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, fmt.Errorf("cvtColor: %w", err)
	}
	if gray.Empty() {
		return nil, fmt.Errorf("cvtColor produced an empty Mat")
	}

	edges := gocv.NewMat()
	defer edges.Close()
	if err := gocv.Canny(gray, &edges, float32(opts.LowThreshold), float32(opts.HighThreshold)); err != nil {
		return nil, fmt.Errorf("canny: %w", err)
	}
	if edges.Empty() {
		return nil, fmt.Errorf("canny produced an empty Mat")
	}
	if edges.Rows() != src.Height || edges.Cols() != src.Width {
		return nil, fmt.Errorf("canny returned %dx%d, want %dx%d",
			edges.Cols(), edges.Rows(), src.Width, src.Height)
	}

	out := NewEdgeMap(src.Width, src.Height)
	for i, v := range edges.ToBytes() {
		if v != 0 {
			out.Pix[i] = EdgeValue
		}
	}
	return out, nil
}
