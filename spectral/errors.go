package spectral

import "errors"

var (
	// ErrValue signals an argument outside the domain of an estimator,
	// such as a zero stride or an overlap no shorter than the segment.
	ErrValue = errors.New("spectral: invalid argument")

	// ErrUnsupportedOperand signals an operand type a grid operation
	// cannot work with.
	ErrUnsupportedOperand = errors.New("spectral: unsupported operand")

	// ErrBackendUnavailable signals that the selected backend cannot
	// estimate with the requested method.
	ErrBackendUnavailable = errors.New("spectral: backend unavailable")
)
