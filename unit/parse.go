package unit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	gunit "gonum.org/v1/gonum/unit"
)

// symbolTable resolves exact unit symbols, including a few aliases. Prefixed
// forms (km, MHz, µs) resolve through siPrefixes against this table.
var symbolTable = map[string]Unit{
	"s":      Second(),
	"Hz":     Hertz(),
	"m":      Meter(),
	"g":      named("g", 1e-3, gunit.Dimensions{gunit.MassDim: 1}),
	"kg":     Kilogram(),
	"A":      Ampere(),
	"V":      Volt(),
	"W":      Watt(),
	"J":      Joule(),
	"K":      Kelvin(),
	"rad":    Radian(),
	"deg":    Degree(),
	"strain": Strain(),
	"count":  Count(),
	"counts": Count(),
	"ct":     Count(),
	"pc":     Parsec(),
	"cd":     named("cd", 1, gunit.Dimensions{gunit.LuminousIntensityDim: 1}),
	"mol":    named("mol", 1, gunit.Dimensions{gunit.MoleDim: 1}),
}

type siPrefix struct {
	sym   string
	scale float64
}

// Longest symbols first so that the multibyte micro sign wins over any
// single-byte candidate.
var siPrefixes = []siPrefix{
	{"µ", 1e-6},
	{"p", 1e-12},
	{"n", 1e-9},
	{"u", 1e-6},
	{"m", 1e-3},
	{"c", 1e-2},
	{"d", 1e-1},
	{"k", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
}

// Parse interprets a compact unit expression: base symbols with optional SI
// prefixes, integer exponents written ^n or **n, products separated by '*'
// or whitespace, and at most one '/'. The empty string is dimensionless.
// Unrecognized input fails with ErrParse.
func Parse(s string) (Unit, error) {
	expr := strings.TrimSpace(s)
	if expr == "" {
		return Dimensionless(), nil
	}
	expr = strings.ReplaceAll(expr, "**", "^")

	parts := strings.Split(expr, "/")
	if len(parts) > 2 {
		return Unit{}, fmt.Errorf("%w: %q contains more than one division", ErrParse, s)
	}
	u, err := parseProduct(parts[0], s)
	if err != nil {
		return Unit{}, err
	}
	if len(parts) == 2 {
		den, err := parseProduct(parts[1], s)
		if err != nil {
			return Unit{}, err
		}
		u = u.Div(den)
	}
	return u, nil
}

// MustParse is Parse for statically known expressions; it panics on error.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func parseProduct(expr, whole string) (Unit, error) {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == '*' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return Dimensionless(), nil
	}
	if len(fields) == 1 {
		return parseToken(fields[0], whole)
	}
	u := Dimensionless()
	for _, f := range fields {
		t, err := parseToken(f, whole)
		if err != nil {
			return Unit{}, err
		}
		u = u.Mul(t)
	}
	return u, nil
}

func parseToken(tok, whole string) (Unit, error) {
	base := tok
	exp := 1
	if i := strings.IndexByte(tok, '^'); i >= 0 {
		base = tok[:i]
		n, err := strconv.Atoi(strings.TrimPrefix(tok[i+1:], "+"))
		if err != nil {
			return Unit{}, fmt.Errorf("%w: %q has a non-integer exponent in %q",
				ErrParse, tok, whole)
		}
		exp = n
	}
	if base == "" {
		return Unit{}, fmt.Errorf("%w: empty term in %q", ErrParse, whole)
	}
	if f, err := strconv.ParseFloat(base, 64); err == nil {
		u := Dimensionless()
		return u.scalePow(f, exp), nil
	}
	u, err := resolveSymbol(base)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: unknown symbol %q in %q", ErrParse, base, whole)
	}
	return u.Pow(exp), nil
}

func resolveSymbol(sym string) (Unit, error) {
	if u, ok := symbolTable[sym]; ok {
		return u, nil
	}
	for _, p := range siPrefixes {
		rest, ok := strings.CutPrefix(sym, p.sym)
		if !ok || rest == "" {
			continue
		}
		if base, ok := symbolTable[rest]; ok {
			u := base
			u.scale *= p.scale
			u.symbol = sym
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("%w: %q", ErrParse, sym)
}

func (u Unit) scalePow(f float64, exp int) Unit {
	for i := 0; i < exp; i++ {
		u.scale *= f
	}
	for i := 0; i > exp; i-- {
		u.scale /= f
	}
	return u
}
