package frame

import "errors"

var (
	// ErrInvalidFrame reports malformed or truncated frame data.
	ErrInvalidFrame = errors.New("frame: invalid frame data")

	// ErrKindMismatch reports a decode into the wrong container kind.
	ErrKindMismatch = errors.New("frame: unexpected frame kind")

	// ErrTooLarge reports a value that exceeds a length field of the format.
	ErrTooLarge = errors.New("frame: value exceeds format limits")
)
