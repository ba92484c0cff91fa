// Package stats computes one-pass summary statistics over sample buffers.
//
// An Accumulator folds samples in with Welford's update, keeping the first
// four central moments numerically stable over long streams, and merges
// with other accumulators so partial scans can be combined. It backs the
// inspection CLI's statistics view.
package stats
