package unit

import "errors"

var (
	// ErrParse reports a unit string that could not be interpreted.
	ErrParse = errors.New("unit: cannot parse unit")

	// ErrMismatch reports an operation between units of different dimensions.
	ErrMismatch = errors.New("unit: dimensions do not match")

	// ErrRoot reports a root that does not divide every dimension exponent.
	ErrRoot = errors.New("unit: dimensions have no integer root")
)
