// Package sources models transient astrophysical sources, currently
// gamma-ray bursts.
//
// A GRB records one detection: the satellite that saw it, sky position,
// timing and the measured burst parameters. Duration classification
// follows the two-population log-normal fit over log10(T90): ProbShort
// and ProbLong weigh the short and long populations against each other,
// and Classify turns the odds into a label at a chosen confidence. List
// bundles detections with selection and ordering helpers.
package sources
