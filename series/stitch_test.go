package series

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-gw/internal/testutil"
	"github.com/cwbudde/algo-gw/unit"
)

func secondsSeries(t *testing.T, data []float64, x0 float64) *Series {
	t.Helper()
	s, err := New(data, WithX0(x0), WithDX(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestGapNames(t *testing.T) {
	for _, tc := range []struct {
		gap  Gap
		name string
	}{
		{GapRaise, "raise"},
		{GapIgnore, "ignore"},
		{GapPad, "pad"},
	} {
		if got := tc.gap.String(); got != tc.name {
			t.Fatalf("String(%d) = %q, want %q", int(tc.gap), got, tc.name)
		}
		parsed, err := ParseGap(tc.name)
		if err != nil || parsed != tc.gap {
			t.Fatalf("ParseGap(%q) = %v, %v", tc.name, parsed, err)
		}
	}
	if _, err := ParseGap("discard"); !errors.Is(err, ErrValue) {
		t.Fatalf("ParseGap(discard): err = %v, want ErrValue", err)
	}
}

func TestIsContiguousAntisymmetric(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	b := secondsSeries(t, []float64{6, 7, 8}, 5)

	ab, err := a.IsContiguous(b)
	if err != nil {
		t.Fatalf("IsContiguous: %v", err)
	}
	ba, err := b.IsContiguous(a)
	if err != nil {
		t.Fatalf("IsContiguous: %v", err)
	}
	if ab != 1 || ba != -1 {
		t.Fatalf("contiguity = %d/%d, want 1/-1", ab, ba)
	}

	c := secondsSeries(t, []float64{9, 10}, 7)
	ac, err := a.IsContiguous(c)
	if err != nil {
		t.Fatalf("IsContiguous: %v", err)
	}
	ca, err := c.IsContiguous(a)
	if err != nil {
		t.Fatalf("IsContiguous: %v", err)
	}
	if ac != 0 || ca != 0 {
		t.Fatalf("gapped contiguity = %d/%d, want 0/0", ac, ca)
	}
}

func TestIsCompatibleMismatches(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2}, 0)

	coarse, err := New([]float64{3, 4}, WithX0(2.0), WithDX(2.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.IsCompatible(coarse); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("step mismatch: err = %v, want ErrIncompatible", err)
	}

	hz, err := New([]float64{3, 4}, WithX0(2.0), WithDX(1.0), WithXUnit(unit.Hertz()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.IsCompatible(hz); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("axis unit mismatch: err = %v, want ErrIncompatible", err)
	}

	volts, err := New([]float64{3, 4}, WithX0(2.0), WithDX(1.0), WithUnit(unit.Volt()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.IsCompatible(volts); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("data unit mismatch: err = %v, want ErrIncompatible", err)
	}
}

func TestAppendContiguous(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	b := secondsSeries(t, []float64{6, 7, 8}, 5)

	joined, err := a.Append(b, GapRaise, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(), []float64{1, 2, 3, 4, 5, 6, 7, 8}, 0)
	lo, hi, err := joined.XSpan()
	if err != nil {
		t.Fatalf("XSpan: %v", err)
	}
	if lo.Value != 0 || hi.Value != 8 {
		t.Fatalf("span = [%v, %v), want [0, 8)", lo.Value, hi.Value)
	}
	// the receiver is untouched without inPlace
	if a.Len() != 5 {
		t.Fatalf("receiver grew to %d samples", a.Len())
	}
}

func TestAppendInPlace(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	b := secondsSeries(t, []float64{6, 7, 8}, 5)

	joined, err := a.Append(b, GapRaise, true)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if joined != a {
		t.Fatal("inPlace must return the receiver")
	}
	if a.Len() != 8 {
		t.Fatalf("receiver has %d samples, want 8", a.Len())
	}
}

func TestAppendGapRaises(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	c := secondsSeries(t, []float64{9, 10}, 7)

	if _, err := a.Append(c, GapRaise, false); !errors.Is(err, ErrDiscontiguous) {
		t.Fatalf("err = %v, want ErrDiscontiguous", err)
	}
}

func TestAppendGapPads(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	c := secondsSeries(t, []float64{9, 10}, 7)

	joined, err := a.Append(c, GapPad, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(),
		[]float64{1, 2, 3, 4, 5, 0, 0, 9, 10}, 0)

	// the pad spans exactly the gap: 2 samples * 1 s
	lo, hi, err := joined.XSpan()
	if err != nil {
		t.Fatalf("XSpan: %v", err)
	}
	if lo.Value != 0 || hi.Value != 9 {
		t.Fatalf("span = [%v, %v), want [0, 9)", lo.Value, hi.Value)
	}
}

func TestAppendIgnoreIsSliceInvertible(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	c := secondsSeries(t, []float64{9, 10}, 7)

	joined, err := a.Append(c, GapIgnore, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if joined.Len() != a.Len()+c.Len() {
		t.Fatalf("len = %d, want %d", joined.Len(), a.Len()+c.Len())
	}
	tail, err := joined.Slice(a.Len(), joined.Len(), 1)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, tail.Data(), c.Data(), 0)
}

func TestAppendBackwardsGapUnpaddable(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	early := secondsSeries(t, []float64{9, 10}, 2)

	if _, err := a.Append(early, GapPad, false); !errors.Is(err, ErrDiscontiguous) {
		t.Fatalf("err = %v, want ErrDiscontiguous", err)
	}
}

func TestPrependContiguous(t *testing.T) {
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)
	b := secondsSeries(t, []float64{6, 7, 8}, 5)

	joined, err := b.Prepend(a, GapRaise, false)
	if err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(), []float64{1, 2, 3, 4, 5, 6, 7, 8}, 0)
	x0, err := joined.X0()
	if err != nil {
		t.Fatalf("X0: %v", err)
	}
	if x0.Value != 0 {
		t.Fatalf("x0 = %v, want 0 (taken from the prepended block)", x0.Value)
	}
}

func TestPrependGapPads(t *testing.T) {
	c := secondsSeries(t, []float64{9, 10}, 7)
	a := secondsSeries(t, []float64{1, 2, 3, 4, 5}, 0)

	joined, err := c.Prepend(a, GapPad, false)
	if err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(),
		[]float64{1, 2, 3, 4, 5, 0, 0, 9, 10}, 0)
	x0, err := joined.X0()
	if err != nil {
		t.Fatalf("X0: %v", err)
	}
	if x0.Value != 0 {
		t.Fatalf("x0 = %v, want 0", x0.Value)
	}
}

func rowsGrid(t *testing.T, rows [][]float64, x0 float64) *Grid {
	t.Helper()
	g, err := NewGrid(rows, WithX0(x0), WithDX(1.0), WithY0(0.0), WithDY(10.0))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestGridAppendContiguous(t *testing.T) {
	a := rowsGrid(t, [][]float64{{1, 2}, {3, 4}}, 0)
	b := rowsGrid(t, [][]float64{{5, 6}}, 2)

	joined, err := a.Append(b, GapRaise, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if joined.NX() != 3 || joined.NY() != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", joined.NX(), joined.NY())
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(), []float64{1, 2, 3, 4, 5, 6}, 0)
	if a.NX() != 2 {
		t.Fatalf("receiver grew to %d rows", a.NX())
	}
}

func TestGridAppendPadsWholeRows(t *testing.T) {
	a := rowsGrid(t, [][]float64{{1, 2}, {3, 4}}, 0)
	late := rowsGrid(t, [][]float64{{5, 6}}, 4)

	joined, err := a.Append(late, GapPad, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if joined.NX() != 5 {
		t.Fatalf("rows = %d, want 5", joined.NX())
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(),
		[]float64{1, 2, 3, 4, 0, 0, 0, 0, 5, 6}, 0)
}

func TestGridAppendIncompatible(t *testing.T) {
	a := rowsGrid(t, [][]float64{{1, 2}, {3, 4}}, 0)

	wide, err := NewGrid([][]float64{{5, 6, 7}}, WithX0(2.0), WithDX(1.0), WithY0(0.0), WithDY(10.0))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if _, err := a.Append(wide, GapRaise, false); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("column mismatch: err = %v, want ErrIncompatible", err)
	}

	shifted, err := NewGrid([][]float64{{5, 6}}, WithX0(2.0), WithDX(1.0), WithY0(5.0), WithDY(10.0))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if _, err := a.Append(shifted, GapRaise, false); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("y0 mismatch: err = %v, want ErrIncompatible", err)
	}
}

func TestGridPrependMovesOrigin(t *testing.T) {
	b := rowsGrid(t, [][]float64{{5, 6}}, 2)
	a := rowsGrid(t, [][]float64{{1, 2}, {3, 4}}, 0)

	joined, err := b.Prepend(a, GapRaise, false)
	if err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	x0, err := joined.X0()
	if err != nil {
		t.Fatalf("X0: %v", err)
	}
	if x0.Value != 0 {
		t.Fatalf("x0 = %v, want 0", x0.Value)
	}
	testutil.RequireSliceNearlyEqual(t, joined.Data(), []float64{1, 2, 3, 4, 5, 6}, 0)
}
