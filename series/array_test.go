package series

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-gw/internal/testutil"
	"github.com/cwbudde/algo-gw/unit"
)

func TestNewArrayViewAndCopy(t *testing.T) {
	data := []float64{1, 2, 3}

	view, err := NewArray(data)
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	data[0] = 10
	if view.Data()[0] != 10 {
		t.Fatal("default construction did not share the buffer")
	}

	data[0] = 1
	owned, err := NewArray(data, WithCopy())
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	data[0] = 99
	if owned.Data()[0] != 1 {
		t.Fatal("WithCopy still shares the buffer")
	}
}

func TestDeriveIdentityReuse(t *testing.T) {
	a, err := NewArray([]float64{1, 2}, WithName("src"))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}

	same, err := Derive(a)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if same != a {
		t.Fatal("Derive without options must return the source instance")
	}

	named, err := Derive(a, WithName("derived"))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if named == a {
		t.Fatal("Derive with options must return a new instance")
	}
	if name, _ := named.Name(); name != "derived" {
		t.Fatalf("derived name = %q", name)
	}
	if name, _ := a.Name(); name != "src" {
		t.Fatalf("source name changed to %q", name)
	}
}

func TestArrayPow(t *testing.T) {
	a, err := NewArray([]float64{1, 2, 3}, WithUnit(unit.Meter()), WithName("disp"))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}

	sq, err := a.Pow(2)
	if err != nil {
		t.Fatalf("Pow: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, sq.Data(), []float64{1, 4, 9}, 0)
	if !sq.Unit().Equal(unit.Meter().Pow(2)) {
		t.Fatalf("unit = %v, want m^2", sq.Unit())
	}
	if name, _ := sq.Name(); name != "disp" {
		t.Fatalf("name = %q, lost in Pow", name)
	}

	back, err := sq.Pow(0.5)
	if err != nil {
		t.Fatalf("Pow(0.5): %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, back.Data(), []float64{1, 2, 3}, 1e-12)
	if !back.Unit().Equal(unit.Meter()) {
		t.Fatalf("unit = %v, want m", back.Unit())
	}
}

func TestArrayPowUnitErrors(t *testing.T) {
	a, err := NewArray([]float64{4}, WithUnit(unit.Meter()))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if _, err := a.Pow(0.5); !errors.Is(err, unit.ErrRoot) {
		t.Fatalf("Pow(0.5) on m: err = %v, want ErrRoot", err)
	}
	if _, err := a.Pow(1.5); !errors.Is(err, ErrValue) {
		t.Fatalf("Pow(1.5) on m: err = %v, want ErrValue", err)
	}

	scaled, err := NewArray([]float64{16}, WithUnit(unit.New(4, nil)))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	half, err := scaled.Pow(0.5)
	if err != nil {
		t.Fatalf("Pow(0.5) on scaled dimensionless: %v", err)
	}
	if got := half.Unit().Scale(); got != 2 {
		t.Fatalf("scale = %v, want 2", got)
	}
}

func TestArrayAddConvertsUnits(t *testing.T) {
	a, err := NewArray([]float64{1, 2}, WithUnit(unit.Meter()))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	b, err := NewArray([]float64{1, 1}, WithUnit(unit.MustParse("km")))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, sum.Data(), []float64{1001, 1002}, 1e-9)
	if !sum.Unit().Equal(unit.Meter()) {
		t.Fatalf("unit = %v, want m", sum.Unit())
	}

	diff, err := sum.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, diff.Data(), []float64{1, 2}, 1e-9)
}

func TestArrayAddErrors(t *testing.T) {
	a, _ := NewArray([]float64{1, 2}, WithUnit(unit.Meter()))
	b, _ := NewArray([]float64{1, 2}, WithUnit(unit.Second()))
	if _, err := a.Add(b); !errors.Is(err, unit.ErrMismatch) {
		t.Fatalf("err = %v, want ErrMismatch", err)
	}

	c, _ := NewArray([]float64{1, 2, 3}, WithUnit(unit.Meter()))
	if _, err := a.Add(c); !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}
}

func TestArrayMulDiv(t *testing.T) {
	a, _ := NewArray([]float64{2, 3}, WithUnit(unit.Meter()))
	b, _ := NewArray([]float64{4, 5}, WithUnit(unit.Second()))

	prod, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, prod.Data(), []float64{8, 15}, 0)
	if !prod.Unit().Equal(unit.Meter().Mul(unit.Second())) {
		t.Fatalf("unit = %v, want m s", prod.Unit())
	}

	quot, err := prod.Div(b)
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, quot.Data(), []float64{2, 3}, 1e-12)
	if !quot.Unit().Equal(unit.Meter()) {
		t.Fatalf("unit = %v, want m", quot.Unit())
	}
}

func TestArrayReductions(t *testing.T) {
	a, err := NewArray([]float64{3, 1, 4, 1, 5}, WithUnit(unit.Count()))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}

	cases := []struct {
		name string
		fn   func() (unit.Quantity, error)
		want float64
	}{
		{"min", a.Min, 1},
		{"max", a.Max, 5},
		{"sum", a.Sum, 14},
		{"mean", a.Mean, 2.8},
		{"median", a.Median, 3},
		{"rms", a.RMS, math.Sqrt(10.4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := tc.fn()
			if err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			testutil.RequireNearlyEqual(t, q.Value, tc.want, 1e-12)
			if !q.Unit.Equal(unit.Count()) {
				t.Fatalf("unit = %v, want count", q.Unit)
			}
		})
	}
}

func TestArrayMedianEvenLength(t *testing.T) {
	a, _ := NewArray([]float64{4, 1, 3, 2})
	q, err := a.Median()
	if err != nil {
		t.Fatalf("Median: %v", err)
	}
	testutil.RequireNearlyEqual(t, q.Value, 2.5, 0)
}

func TestArrayEmptyReductions(t *testing.T) {
	a, _ := NewArray(nil)
	if _, err := a.Min(); !errors.Is(err, ErrValue) {
		t.Fatalf("Min on empty: err = %v, want ErrValue", err)
	}
	if _, err := a.Mean(); !errors.Is(err, ErrValue) {
		t.Fatalf("Mean on empty: err = %v, want ErrValue", err)
	}
	if _, err := a.RMS(); !errors.Is(err, ErrValue) {
		t.Fatalf("RMS on empty: err = %v, want ErrValue", err)
	}
}

func TestArrayTranspose(t *testing.T) {
	var meta Metadata
	meta.SetName("grid")
	a := newArray([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, meta)

	tr := a.Transpose()
	wantShape := []int{3, 2}
	gotShape := tr.Shape()
	if gotShape[0] != wantShape[0] || gotShape[1] != wantShape[1] {
		t.Fatalf("shape = %v, want %v", gotShape, wantShape)
	}
	testutil.RequireSliceNearlyEqual(t, tr.Data(), []float64{1, 4, 2, 5, 3, 6}, 0)
	if name, _ := tr.Name(); name != "grid" {
		t.Fatalf("name = %q, lost in Transpose", name)
	}

	flat, _ := NewArray([]float64{1, 2, 3})
	if got := flat.Transpose(); !got.Equal(flat) {
		t.Fatal("1-D transpose should be an identical copy")
	}
}

func TestArrayReshape(t *testing.T) {
	a, _ := NewArray([]float64{1, 2, 3, 4, 5, 6}, WithName("m"))

	grid, err := a.Reshape(2, 3)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if got := grid.Shape(); got[0] != 2 || got[1] != 3 {
		t.Fatalf("shape = %v, want [2 3]", got)
	}
	if name, _ := grid.Name(); name != "m" {
		t.Fatalf("name = %q, lost in Reshape", name)
	}
	// buffer is shared
	grid.Data()[0] = 10
	if a.Data()[0] != 10 {
		t.Fatal("Reshape must not copy the buffer")
	}

	if _, err := a.Reshape(4, 2); !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}
}

func TestArrayMetadataDetached(t *testing.T) {
	a, _ := NewArray([]float64{1, 2}, WithName("orig"), WithEpoch(1126259462))
	out := a.Scale(2)
	out.SetName("scaled")
	if name, _ := a.Name(); name != "orig" {
		t.Fatalf("source name = %q after derived edit", name)
	}
	if epoch, ok := out.Epoch(); !ok || float64(epoch) != 1126259462 {
		t.Fatalf("epoch = %v (%v), lost in Scale", epoch, ok)
	}
}

func TestArrayFormat(t *testing.T) {
	a, _ := NewArray([]float64{1, 2, 3}, WithName("h"), WithUnit(unit.Strain()))
	got := a.String()
	if !strings.HasPrefix(got, "[1, 2, 3]") {
		t.Fatalf("String = %q", got)
	}
	if !strings.Contains(got, `name="h"`) || !strings.Contains(got, "unit=strain") {
		t.Fatalf("String = %q, missing metadata", got)
	}

	long, _ := NewArray(testutil.Ramp(0, 1, 100))
	if got := long.Format(FormatConfig{MaxSamples: 4}); !strings.Contains(got, "...") {
		t.Fatalf("Format = %q, want elision", got)
	}
}
