// Package unit provides physical units and unit-bearing quantities for
// annotated data series.
//
// A Unit is a multiplicative scale applied to a vector of SI dimension
// exponents. Units compose through Mul, Div and Pow, convert through
// Quantity.To, and parse from compact symbol strings such as "Hz",
// "km", "m/s" or "strain^2 / Hz". Two extra orthogonal dimensions,
// strain and count, cover the dimensionless-but-distinct bookkeeping
// common in detector data.
package unit
