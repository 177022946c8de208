package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is the root of every caller-side precondition failure.
	// Requests failing with it never reach the network.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmptyPrompt is returned when the prompt is empty or blank.
	ErrEmptyPrompt = fmt.Errorf("%w: prompt is required", ErrInvalidRequest)

	// ErrMissingSourceImage is returned for image-mode video requests without a source image URL.
	ErrMissingSourceImage = fmt.Errorf("%w: image url is required for image-to-video", ErrInvalidRequest)

	// ErrUnknownCapability is returned when the capability is not supported.
	ErrUnknownCapability = fmt.Errorf("%w: unknown capability", ErrInvalidRequest)

	// ErrUnknownInputKind is returned when the video input kind is not text or image.
	ErrUnknownInputKind = fmt.Errorf("%w: type must be text or image", ErrInvalidRequest)

	// ErrUnsupportedModel is returned when the image model is not allow-listed.
	ErrUnsupportedModel = fmt.Errorf("%w: unsupported image model", ErrInvalidRequest)

	// ErrInvalidDimensions is returned when width or height is out of range.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid image dimensions", ErrInvalidRequest)

	// ErrInvalidEncoding is returned when a text field is not valid UTF-8.
	ErrInvalidEncoding = fmt.Errorf("%w: text must be valid UTF-8", ErrInvalidRequest)

	// ErrMissingOptions is returned when capability-specific options are absent.
	ErrMissingOptions = fmt.Errorf("%w: missing options", ErrInvalidRequest)
)

// ErrResponseTooLarge is reported by upstreams whose response body exceeds
// the configured limit.
var ErrResponseTooLarge = errors.New("upstream response too large")

var (
	// ErrActionInProgress is returned when an action is started twice.
	ErrActionInProgress = errors.New("action already in progress")

	// ErrActionNotStarted is returned when resolving an action that was never started.
	ErrActionNotStarted = errors.New("action not started")
)

// IsInvalidRequest reports whether err is a caller-side precondition failure.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
