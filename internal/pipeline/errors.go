package pipeline

import "errors"

// Every pipeline failure falls into one of four categories, surfaced to the
// user as-is and matched with errors.Is.
var (
	// ErrDataUnavailable: the remote source returned nothing usable, or the
	// manual input had no parseable rows.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInsufficientData: a series exists but is too short to animate.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrRenderFailure: the drawing stage failed.
	ErrRenderFailure = errors.New("render failure")

	// ErrEncodeFailure: ffmpeg failed or the output could not be written.
	ErrEncodeFailure = errors.New("encode failure")
)

// Category names the failure class of err for status displays, or "error"
// when it matches none.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrDataUnavailable):
		return "DataUnavailable"
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientData"
	case errors.Is(err, ErrRenderFailure):
		return "RenderFailure"
	case errors.Is(err, ErrEncodeFailure):
		return "EncodeFailure"
	default:
		return "error"
	}
}
