package imaging

import (
	"fmt"
	"math"
)

// Default hysteresis thresholds, in Sobel gradient units on 0-255 gray samples.
const (
	DefaultLowThreshold  = 100
	DefaultHighThreshold = 200
)

// Backend names accepted in Options.Backend.
const (
	BackendNative = "native"
	BackendOpenCV = "opencv"
)

// Options configures an edge filter. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// LowThreshold and HighThreshold are the hysteresis thresholds. If
	// LowThreshold is greater than HighThreshold the two are swapped.
	LowThreshold  float64
	HighThreshold float64

	// L2Gradient selects the Euclidean gradient magnitude instead of |Gx|+|Gy|.
	L2Gradient bool

	// BlurRadius applies a Gaussian pre-smoothing of the given radius before
	// the gradient stage. 0 disables it. Ignored by the OpenCV backend.
	BlurRadius float64

	// Backend selects the implementation: BackendNative or BackendOpenCV.
	// Empty means BackendNative.
	Backend string
}

// DefaultOptions returns the standard configuration: thresholds 100 and 200,
// L1 gradient, no pre-smoothing, native backend.
func DefaultOptions() Options {
	return Options{
		LowThreshold:  DefaultLowThreshold,
		HighThreshold: DefaultHighThreshold,
		Backend:       BackendNative,
	}
}

// Validate checks the thresholds and backend name.
func (o Options) Validate() error {
	for _, t := range []float64{o.LowThreshold, o.HighThreshold} {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidThreshold, t)
		}
	}
	if o.BlurRadius < 0 || math.IsNaN(o.BlurRadius) {
		return fmt.Errorf("%w: blur radius %v", ErrInvalidThreshold, o.BlurRadius)
	}
	switch o.Backend {
	case "", BackendNative, BackendOpenCV:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrProcessing, o.Backend)
	}
	return nil
}

// Filter converts color images to edge maps. A Filter holds no mutable state
// and is safe for concurrent use.
type Filter struct {
	opts Options
}

// NewFilter validates opts and returns a Filter that uses them.
func NewFilter(opts Options) (*Filter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.LowThreshold > opts.HighThreshold {
		opts.LowThreshold, opts.HighThreshold = opts.HighThreshold, opts.LowThreshold
	}
	if opts.Backend == "" {
		opts.Backend = BackendNative
	}
	return &Filter{opts: opts}, nil
}

// Options returns the normalized options of the filter.
func (f *Filter) Options() Options {
	return f.opts
}

// Apply converts src to grayscale and runs Canny edge detection on it.
//
// The returned EdgeMap has the same height and width as src, is newly
// allocated, and contains only 0 and EdgeValue. src is never modified.
//
// Errors:
//   - ErrInvalidShape: src is nil or its buffer does not match its dimensions
//   - ErrEmptyImage: src has zero height or width
//   - ErrProcessing: the selected backend failed or is not available
func (f *Filter) Apply(src *ColorImage) (*EdgeMap, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	switch f.opts.Backend {
	case BackendOpenCV:
		edges, err := applyOpenCV(src, f.opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		return edges, nil
	default:
		gray := grayscale(src)
		return canny(gray, cannyParams{
			low:        f.opts.LowThreshold,
			high:       f.opts.HighThreshold,
			l2Gradient: f.opts.L2Gradient,
			blurRadius: f.opts.BlurRadius,
		}), nil
	}
}

var defaultFilter = &Filter{opts: DefaultOptions()}

// Apply runs the default filter (thresholds 100 and 200) on src.
func Apply(src *ColorImage) (*EdgeMap, error) {
	return defaultFilter.Apply(src)
}

// ApplyBuffer is the raw-buffer entry point: it takes a BGR byte buffer
// described by shape [height, width, 3] and returns the edge bytes, shaped
// [height, width]. pix is only read.
func ApplyBuffer(shape []int, pix []byte, opts Options) ([]byte, []int, error) {
	src, err := NewColorImage(shape, pix)
	if err != nil {
		return nil, nil, err
	}
	f, err := NewFilter(opts)
	if err != nil {
		return nil, nil, err
	}
	edges, err := f.Apply(src)
	if err != nil {
		return nil, nil, err
	}
	return edges.Pix, edges.Shape(), nil
}
