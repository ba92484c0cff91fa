package unit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	gunit "gonum.org/v1/gonum/unit"
)

// Orthogonal dimensions beyond the SI base set. Strain and count behave as
// independent axes so that compositions such as strain^2/Hz survive algebra
// instead of collapsing to 1/Hz.
var (
	strainDim = gunit.NewDimension("strain")
	countDim  = gunit.NewDimension("count")
)

// dimSymbols maps every dimension this package can emit to its canonical
// base symbol. String and Parts render through this table; FromParts and the
// parser resolve through its inverse.
var dimSymbols = map[gunit.Dimension]string{
	gunit.TimeDim:              "s",
	gunit.LengthDim:            "m",
	gunit.MassDim:              "kg",
	gunit.CurrentDim:           "A",
	gunit.TemperatureDim:       "K",
	gunit.AngleDim:             "rad",
	gunit.MoleDim:              "mol",
	gunit.LuminousIntensityDim: "cd",
	strainDim:                  "strain",
	countDim:                   "count",
}

var symbolDims = func() map[string]gunit.Dimension {
	m := make(map[string]gunit.Dimension, len(dimSymbols))
	for d, s := range dimSymbols {
		m[s] = d
	}
	return m
}()

// Unit is a physical unit: a scale factor relative to coherent SI applied to
// a vector of dimension exponents. The zero value is invalid; use
// Dimensionless for the empty unit. Units are immutable values and safe to
// copy and share.
type Unit struct {
	scale  float64
	dims   gunit.Dimensions
	symbol string
}

// New returns a unit with the given SI scale factor and dimension exponents.
// The dimensions map is copied.
func New(scale float64, dims gunit.Dimensions) Unit {
	return Unit{scale: scale, dims: cloneDims(dims)}
}

func named(symbol string, scale float64, dims gunit.Dimensions) Unit {
	u := New(scale, dims)
	u.symbol = symbol
	return u
}

// Dimensionless returns the empty unit with scale 1.
func Dimensionless() Unit { return Unit{scale: 1} }

// Second returns the SI second.
func Second() Unit { return named("s", 1, gunit.Dimensions{gunit.TimeDim: 1}) }

// Hertz returns the SI hertz (1/s).
func Hertz() Unit { return named("Hz", 1, gunit.Dimensions{gunit.TimeDim: -1}) }

// Meter returns the SI metre.
func Meter() Unit { return named("m", 1, gunit.Dimensions{gunit.LengthDim: 1}) }

// Kilogram returns the SI kilogram.
func Kilogram() Unit { return named("kg", 1, gunit.Dimensions{gunit.MassDim: 1}) }

// Ampere returns the SI ampere.
func Ampere() Unit { return named("A", 1, gunit.Dimensions{gunit.CurrentDim: 1}) }

// Kelvin returns the SI kelvin.
func Kelvin() Unit { return named("K", 1, gunit.Dimensions{gunit.TemperatureDim: 1}) }

// Radian returns the radian.
func Radian() Unit { return named("rad", 1, gunit.Dimensions{gunit.AngleDim: 1}) }

// Volt returns the SI volt (kg m^2 / A s^3).
func Volt() Unit {
	return named("V", 1, gunit.Dimensions{
		gunit.MassDim: 1, gunit.LengthDim: 2, gunit.CurrentDim: -1, gunit.TimeDim: -3,
	})
}

// Watt returns the SI watt (kg m^2 / s^3).
func Watt() Unit {
	return named("W", 1, gunit.Dimensions{
		gunit.MassDim: 1, gunit.LengthDim: 2, gunit.TimeDim: -3,
	})
}

// Joule returns the SI joule (kg m^2 / s^2).
func Joule() Unit {
	return named("J", 1, gunit.Dimensions{
		gunit.MassDim: 1, gunit.LengthDim: 2, gunit.TimeDim: -2,
	})
}

// Strain returns the dimensionless-but-tracked strain unit used for
// calibrated detector output.
func Strain() Unit { return named("strain", 1, gunit.Dimensions{strainDim: 1}) }

// Count returns the counting unit used for raw detector readout.
func Count() Unit { return named("count", 1, gunit.Dimensions{countDim: 1}) }

// Parsec returns the parsec expressed in metres.
func Parsec() Unit { return named("pc", 3.0856775814913673e16, gunit.Dimensions{gunit.LengthDim: 1}) }

// Degree returns the angular degree expressed in radians.
func Degree() Unit { return named("deg", math.Pi/180, gunit.Dimensions{gunit.AngleDim: 1}) }

// Named returns a copy of u that displays as symbol. Parse must accept the
// symbol back for canonical round-trips; equality never considers it.
func (u Unit) Named(symbol string) Unit {
	u.symbol = symbol
	return u
}

// Scale returns the SI scale factor of u.
func (u Unit) Scale() float64 { return u.scale }

// IsDimensionless reports whether u carries no dimension exponents. The
// scale factor is not considered.
func (u Unit) IsDimensionless() bool { return len(u.dims) == 0 }

// Mul returns the product unit. Symbols do not survive composition.
func (u Unit) Mul(v Unit) Unit {
	out := Unit{scale: u.scale * v.scale, dims: cloneDims(u.dims)}
	out.dims = addDims(out.dims, v.dims, 1)
	return out
}

// Div returns the quotient unit.
func (u Unit) Div(v Unit) Unit {
	out := Unit{scale: u.scale / v.scale, dims: cloneDims(u.dims)}
	out.dims = addDims(out.dims, v.dims, -1)
	return out
}

// Pow returns u raised to the integer power n.
func (u Unit) Pow(n int) Unit {
	if n == 1 {
		return u
	}
	out := Unit{scale: math.Pow(u.scale, float64(n)), dims: gunit.Dimensions{}}
	for d, e := range u.dims {
		if e*n != 0 {
			out.dims[d] = e * n
		}
	}
	if len(out.dims) == 0 {
		out.dims = nil
	}
	return out
}

// Root returns the n-th root of u. Every dimension exponent must divide
// evenly by n, otherwise Root fails with ErrRoot.
func (u Unit) Root(n int) (Unit, error) {
	if n == 0 {
		return Unit{}, fmt.Errorf("%w: zeroth root", ErrRoot)
	}
	out := Unit{scale: math.Pow(u.scale, 1/float64(n)), dims: gunit.Dimensions{}}
	for d, e := range u.dims {
		if e%n != 0 {
			return Unit{}, fmt.Errorf("%w: exponent %d of %s not divisible by %d",
				ErrRoot, e, dimSymbols[d], n)
		}
		out.dims[d] = e / n
	}
	if len(out.dims) == 0 {
		out.dims = nil
	}
	return out, nil
}

// Equal reports whether u and v have the same dimensions and the same scale
// factor. Display symbols are ignored, so Parse("Hz") equals Hertz().
func (u Unit) Equal(v Unit) bool {
	return u.Compatible(v) && nearly(u.scale, v.scale)
}

// Compatible reports whether u and v share the same dimension exponents,
// regardless of scale. Compatible units convert through Quantity.To.
func (u Unit) Compatible(v Unit) bool {
	if len(u.dims) != len(v.dims) {
		return false
	}
	for d, e := range u.dims {
		if v.dims[d] != e {
			return false
		}
	}
	return true
}

// Parts decomposes u into its scale factor and symbol-keyed dimension
// exponents, the structural form used for serialization.
func (u Unit) Parts() (scale float64, exps map[string]int) {
	exps = make(map[string]int, len(u.dims))
	for d, e := range u.dims {
		exps[dimSymbols[d]] = e
	}
	return u.scale, exps
}

// FromParts rebuilds a unit from its structural form. Unknown dimension
// symbols fail with ErrParse.
func FromParts(scale float64, exps map[string]int) (Unit, error) {
	dims := gunit.Dimensions{}
	for sym, e := range exps {
		d, ok := symbolDims[sym]
		if !ok {
			return Unit{}, fmt.Errorf("%w: unknown dimension symbol %q", ErrParse, sym)
		}
		if e != 0 {
			dims[d] = e
		}
	}
	if len(dims) == 0 {
		dims = nil
	}
	return Unit{scale: scale, dims: dims}, nil
}

// String renders u in a canonical form that Parse accepts back. Named units
// keep their symbol; composed units render as a scale factor followed by
// base symbols, positive exponents before a single division.
func (u Unit) String() string {
	if u.symbol != "" {
		return u.symbol
	}
	if len(u.dims) == 0 {
		if nearly(u.scale, 1) {
			return ""
		}
		return formatScale(u.scale)
	}

	type term struct {
		sym string
		exp int
	}
	var num, den []term
	for d, e := range u.dims {
		t := term{sym: dimSymbols[d], exp: e}
		if e > 0 {
			num = append(num, t)
		} else {
			t.exp = -e
			den = append(den, t)
		}
	}
	byName := func(ts []term) {
		sort.Slice(ts, func(i, j int) bool { return ts[i].sym < ts[j].sym })
	}
	byName(num)
	byName(den)

	var b strings.Builder
	if !nearly(u.scale, 1) {
		b.WriteString(formatScale(u.scale))
	}
	writeTerms := func(ts []term) {
		for _, t := range ts {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "/ ") {
				b.WriteByte(' ')
			}
			b.WriteString(t.sym)
			if t.exp != 1 {
				fmt.Fprintf(&b, "^%d", t.exp)
			}
		}
	}
	if len(num) == 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('1')
	}
	writeTerms(num)
	if len(den) > 0 {
		b.WriteString(" / ")
		writeTerms(den)
	}
	return b.String()
}

func formatScale(s float64) string {
	return strings.TrimSpace(fmt.Sprintf("%g", s))
}

func cloneDims(d gunit.Dimensions) gunit.Dimensions {
	if len(d) == 0 {
		return nil
	}
	out := make(gunit.Dimensions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// addDims folds sign*other into dims, dropping zero exponents.
func addDims(dims, other gunit.Dimensions, sign int) gunit.Dimensions {
	if len(other) == 0 {
		return dims
	}
	if dims == nil {
		dims = gunit.Dimensions{}
	}
	for d, e := range other {
		n := dims[d] + sign*e
		if n == 0 {
			delete(dims, d)
		} else {
			dims[d] = n
		}
	}
	if len(dims) == 0 {
		return nil
	}
	return dims
}

// nearly compares scale factors with a relative tolerance, absorbing the
// rounding that decimal prefixes introduce.
func nearly(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-12*scale
}
