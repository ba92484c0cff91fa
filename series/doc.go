// Package series provides metadata-carrying numeric arrays: the annotated
// Array, the one-dimensional axis-indexed Series, and the two-dimensional
// Grid.
//
// Every instance owns a contiguous float64 buffer plus a Metadata container
// (name, unit, epoch, channel, and free-form extras). Arithmetic, slicing
// and reductions return new instances that carry an independent copy of the
// operand's metadata, recomputing the unit where the operation demands it.
// Series and Grid position their samples through regularly spaced axes
// (origin, step, optional logarithmic spacing) and can be stitched end to
// end under an explicit gap policy.
//
// Instances are not safe for concurrent mutation; callers synchronize when
// sharing across goroutines.
package series
