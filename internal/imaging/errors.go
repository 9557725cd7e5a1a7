package imaging

import "errors"

// Errors returned by the edge filter. Callers should match them with errors.Is;
// the returned errors wrap these sentinels with context about the failing input.
var (
	// ErrInvalidShape means the buffer does not describe an HxWx3 8-bit image,
	// or its byte length does not match the described shape.
	ErrInvalidShape = errors.New("invalid image shape")

	// ErrEmptyImage means the height or width is zero.
	ErrEmptyImage = errors.New("empty image")

	// ErrInvalidThreshold means a hysteresis threshold is negative or NaN.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrProcessing wraps failures of the underlying image-processing backend.
	ErrProcessing = errors.New("image processing failed")
)
