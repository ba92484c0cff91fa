package series

import "errors"

var (
	// ErrShape reports input of the wrong dimensionality or size.
	ErrShape = errors.New("series: wrong input shape")

	// ErrKeyNotSet reports a read of a deleted or never-set axis key.
	ErrKeyNotSet = errors.New("series: axis key not set")

	// ErrEmptyIndex reports an axis index assignment with no samples.
	ErrEmptyIndex = errors.New("series: axis index is empty")

	// ErrValue reports a value that cannot serve in the requested role.
	ErrValue = errors.New("series: invalid value")

	// ErrIncompatible reports two sequences whose resolution, units or
	// orthogonal axis disagree, making any join impossible.
	ErrIncompatible = errors.New("series: sequences are not compatible")

	// ErrDiscontiguous reports a join attempted across a gap or overlap
	// under the raise policy, or an unpaddable gap under the pad policy.
	ErrDiscontiguous = errors.New("series: sequences are not contiguous")
)
