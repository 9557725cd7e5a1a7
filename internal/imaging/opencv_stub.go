//go:build !opencv

package imaging

import "errors"

// OpenCVAvailable reports whether the OpenCV backend is compiled in.
const OpenCVAvailable = false

var errOpenCVUnavailable = errors.New("opencv backend not compiled in (rebuild with -tags opencv)")

func applyOpenCV(*ColorImage, Options) (*EdgeMap, error) {
	return nil, errOpenCVUnavailable
}
