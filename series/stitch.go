package series

import (
	"fmt"
	"math"
)

// Gap selects how Append and Prepend treat a detected gap or overlap
// between two otherwise compatible sequences.
type Gap int

const (
	// GapRaise fails on any discontiguity.
	GapRaise Gap = iota
	// GapIgnore concatenates regardless of a gap or overlap.
	GapIgnore
	// GapPad fills the gap with zero-valued samples before concatenating.
	GapPad
)

// String reports the policy name.
func (g Gap) String() string {
	switch g {
	case GapRaise:
		return "raise"
	case GapIgnore:
		return "ignore"
	case GapPad:
		return "pad"
	default:
		return fmt.Sprintf("Gap(%d)", int(g))
	}
}

// ParseGap resolves a policy name to its Gap value.
func ParseGap(s string) (Gap, error) {
	switch s {
	case "raise":
		return GapRaise, nil
	case "ignore":
		return GapIgnore, nil
	case "pad":
		return GapPad, nil
	default:
		return 0, fmt.Errorf("%w: unknown gap policy %q", ErrValue, s)
	}
}

// contiguityTol bounds the span mismatch treated as contiguous. Sample
// steps in this domain are power-of-two fractions of a second, so a fixed
// 2^-18 absorbs accumulated float error without masking real gaps.
const contiguityTol = 1.0 / (1 << 18)

// IsCompatible reports whether o can be stitched onto s: the sample
// steps, the axis units and the data units must all match exactly.
// Failures carry ErrIncompatible naming the first mismatched field.
func (s *Series) IsCompatible(o *Series) error {
	ds, err := s.DX()
	if err != nil {
		return err
	}
	do, err := o.DX()
	if err != nil {
		return err
	}
	if !ds.Equal(do) {
		return fmt.Errorf("%w: sample steps do not match: %s vs %s", ErrIncompatible, ds, do)
	}
	if !s.x.unit.Equal(o.x.unit) {
		return fmt.Errorf("%w: axis units do not match: %s vs %s", ErrIncompatible, s.x.unit, o.x.unit)
	}
	if su, ou := s.Unit(), o.Unit(); !su.Equal(ou) {
		return fmt.Errorf("%w: units do not match: %s vs %s", ErrIncompatible, su, ou)
	}
	return nil
}

// IsContiguous reports 1 when o directly follows s, -1 when o directly
// precedes s, and 0 for a gap or overlap in either direction.
// Incompatible sequences fail regardless of their spans.
func (s *Series) IsContiguous(o *Series) (int, error) {
	if err := s.IsCompatible(o); err != nil {
		return 0, err
	}
	sLo, sHi, err := s.XSpan()
	if err != nil {
		return 0, err
	}
	oLo, oHi, err := o.XSpan()
	if err != nil {
		return 0, err
	}
	switch {
	case math.Abs(sHi.Value-oLo.Value) < contiguityTol:
		return 1, nil
	case math.Abs(oHi.Value-sLo.Value) < contiguityTol:
		return -1, nil
	default:
		return 0, nil
	}
}

// Append joins o after s. With inPlace the receiver's buffer is grown and
// returned, otherwise a copy is grown and s is untouched. Incompatibility
// is always a hard error; a discontiguity follows the gap policy, with
// GapPad measuring the gap in whole samples and zero-filling it.
func (s *Series) Append(o *Series, gap Gap, inPlace bool) (*Series, error) {
	if err := s.IsCompatible(o); err != nil {
		return nil, err
	}
	out := s
	if !inPlace {
		out = s.Copy()
	}
	pos, err := out.IsContiguous(o)
	if err != nil {
		return nil, err
	}
	if pos != 1 {
		switch gap {
		case GapPad:
			ngap, err := out.gapAfter(o)
			if err != nil {
				return nil, err
			}
			out.data = append(out.data, make([]float64, ngap)...)
		case GapIgnore:
		default:
			sLo, sHi, _ := out.XSpan()
			oLo, oHi, _ := o.XSpan()
			return nil, fmt.Errorf("%w: cannot append series with spans [%s, %s) and [%s, %s)",
				ErrDiscontiguous, sLo, sHi, oLo, oHi)
		}
	}
	out.data = append(out.data, o.data...)
	out.shape = []int{len(out.data)}
	out.x.invalidate()
	return out, nil
}

// gapAfter measures the zero-fill length between the end of s and the
// start of o in whole samples, rounding to the nearest sample.
func (s *Series) gapAfter(o *Series) (int, error) {
	step, err := s.x.stepValue()
	if err != nil {
		return 0, err
	}
	_, sHi, err := s.XSpan()
	if err != nil {
		return 0, err
	}
	oLo, _, err := o.XSpan()
	if err != nil {
		return 0, err
	}
	ngap := int(math.Floor((oLo.Value-sHi.Value)/step + 0.5))
	if ngap < 1 {
		return 0, fmt.Errorf("%w: cannot append a series that starts before this one (this ends at %s, other starts at %s)",
			ErrDiscontiguous, sHi, oLo)
	}
	return ngap, nil
}

// Prepend joins o before s, moving the axis origin to o's. With inPlace
// the receiver's buffer is replaced and the receiver returned, otherwise
// s is untouched. The gap policy mirrors Append.
func (s *Series) Prepend(o *Series, gap Gap, inPlace bool) (*Series, error) {
	if err := s.IsCompatible(o); err != nil {
		return nil, err
	}
	out := s
	if !inPlace {
		out = s.Copy()
	}
	pos, err := out.IsContiguous(o)
	if err != nil {
		return nil, err
	}
	ngap := 0
	if pos != -1 {
		switch gap {
		case GapPad:
			ngap, err = o.gapAfter(out)
			if err != nil {
				return nil, fmt.Errorf("cannot prepend: %w", err)
			}
		case GapIgnore:
		default:
			sLo, sHi, _ := out.XSpan()
			oLo, oHi, _ := o.XSpan()
			return nil, fmt.Errorf("%w: cannot prepend series with spans [%s, %s) and [%s, %s)",
				ErrDiscontiguous, sLo, sHi, oLo, oHi)
		}
	}
	buf := make([]float64, 0, len(o.data)+ngap+len(out.data))
	buf = append(buf, o.data...)
	buf = append(buf, make([]float64, ngap)...)
	buf = append(buf, out.data...)
	out.data = buf
	out.shape = []int{len(buf)}
	if start, err := o.x.startValue(); err == nil {
		out.x.start = start
		out.x.hasStart = true
	}
	out.x.invalidate()
	return out, nil
}

// IsCompatible reports whether o can be stitched onto g along the row
// axis: the row steps, the column steps, the column origins, both axis
// units and the data units must all match exactly.
func (g *Grid) IsCompatible(o *Grid) error {
	dxg, err := g.DX()
	if err != nil {
		return err
	}
	dxo, err := o.DX()
	if err != nil {
		return err
	}
	if !dxg.Equal(dxo) {
		return fmt.Errorf("%w: x steps do not match: %s vs %s", ErrIncompatible, dxg, dxo)
	}
	dyg, err := g.DY()
	if err != nil {
		return err
	}
	dyo, err := o.DY()
	if err != nil {
		return err
	}
	if !dyg.Equal(dyo) {
		return fmt.Errorf("%w: y steps do not match: %s vs %s", ErrIncompatible, dyg, dyo)
	}
	y0g, err := g.Y0()
	if err != nil {
		return err
	}
	y0o, err := o.Y0()
	if err != nil {
		return err
	}
	if !y0g.Equal(y0o) {
		return fmt.Errorf("%w: y origins do not match: %s vs %s", ErrIncompatible, y0g, y0o)
	}
	if !g.x.unit.Equal(o.x.unit) {
		return fmt.Errorf("%w: x units do not match: %s vs %s", ErrIncompatible, g.x.unit, o.x.unit)
	}
	if !g.y.unit.Equal(o.y.unit) {
		return fmt.Errorf("%w: y units do not match: %s vs %s", ErrIncompatible, g.y.unit, o.y.unit)
	}
	if gu, ou := g.Unit(), o.Unit(); !gu.Equal(ou) {
		return fmt.Errorf("%w: units do not match: %s vs %s", ErrIncompatible, gu, ou)
	}
	if g.shape[1] != o.shape[1] {
		return fmt.Errorf("%w: column counts do not match: %d vs %d", ErrIncompatible, g.shape[1], o.shape[1])
	}
	return nil
}

// IsContiguous reports 1 when o's rows directly follow g's, -1 when they
// directly precede, and 0 otherwise.
func (g *Grid) IsContiguous(o *Grid) (int, error) {
	if err := g.IsCompatible(o); err != nil {
		return 0, err
	}
	gLo, gHi, err := g.XSpan()
	if err != nil {
		return 0, err
	}
	oLo, oHi, err := o.XSpan()
	if err != nil {
		return 0, err
	}
	switch {
	case math.Abs(gHi.Value-oLo.Value) < contiguityTol:
		return 1, nil
	case math.Abs(oHi.Value-gLo.Value) < contiguityTol:
		return -1, nil
	default:
		return 0, nil
	}
}

// Append joins o's rows after g's. The gap policy matches the Series
// version, padding whole zero-valued rows.
func (g *Grid) Append(o *Grid, gap Gap, inPlace bool) (*Grid, error) {
	if err := g.IsCompatible(o); err != nil {
		return nil, err
	}
	out := g
	if !inPlace {
		out = g.Copy()
	}
	pos, err := out.IsContiguous(o)
	if err != nil {
		return nil, err
	}
	if pos != 1 {
		switch gap {
		case GapPad:
			ngap, err := out.rowGapAfter(o)
			if err != nil {
				return nil, err
			}
			out.data = append(out.data, make([]float64, ngap*out.shape[1])...)
			out.shape[0] += ngap
		case GapIgnore:
		default:
			gLo, gHi, _ := out.XSpan()
			oLo, oHi, _ := o.XSpan()
			return nil, fmt.Errorf("%w: cannot append grids with x spans [%s, %s) and [%s, %s)",
				ErrDiscontiguous, gLo, gHi, oLo, oHi)
		}
	}
	out.data = append(out.data, o.data...)
	out.shape[0] += o.shape[0]
	out.x.invalidate()
	return out, nil
}

func (g *Grid) rowGapAfter(o *Grid) (int, error) {
	step, err := g.x.stepValue()
	if err != nil {
		return 0, err
	}
	_, gHi, err := g.XSpan()
	if err != nil {
		return 0, err
	}
	oLo, _, err := o.XSpan()
	if err != nil {
		return 0, err
	}
	ngap := int(math.Floor((oLo.Value-gHi.Value)/step + 0.5))
	if ngap < 1 {
		return 0, fmt.Errorf("%w: cannot append a grid that starts before this one (this ends at %s, other starts at %s)",
			ErrDiscontiguous, gHi, oLo)
	}
	return ngap, nil
}

// Prepend joins o's rows before g's, moving the row-axis origin to o's.
func (g *Grid) Prepend(o *Grid, gap Gap, inPlace bool) (*Grid, error) {
	if err := g.IsCompatible(o); err != nil {
		return nil, err
	}
	out := g
	if !inPlace {
		out = g.Copy()
	}
	pos, err := out.IsContiguous(o)
	if err != nil {
		return nil, err
	}
	ngap := 0
	if pos != -1 {
		switch gap {
		case GapPad:
			ngap, err = o.rowGapAfter(out)
			if err != nil {
				return nil, fmt.Errorf("cannot prepend: %w", err)
			}
		case GapIgnore:
		default:
			gLo, gHi, _ := out.XSpan()
			oLo, oHi, _ := o.XSpan()
			return nil, fmt.Errorf("%w: cannot prepend grids with x spans [%s, %s) and [%s, %s)",
				ErrDiscontiguous, gLo, gHi, oLo, oHi)
		}
	}
	ny := out.shape[1]
	buf := make([]float64, 0, len(o.data)+ngap*ny+len(out.data))
	buf = append(buf, o.data...)
	buf = append(buf, make([]float64, ngap*ny)...)
	buf = append(buf, out.data...)
	out.data = buf
	out.shape[0] += ngap + o.shape[0]
	if start, err := o.x.startValue(); err == nil {
		out.x.start = start
		out.x.hasStart = true
	}
	out.x.invalidate()
	return out, nil
}
