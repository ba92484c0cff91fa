package spectral

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/unit"
)

// Ratio divides every time row of the grid by a reference spectrum. The
// operand picks the reference: the string "mean" or "median" reduces the
// grid itself along time, a *series.Series supplies an explicit reference
// with its unit divided out, and a plain number rescales every sample.
// Reduction and number operands leave a dimensionless result.
func Ratio(g *series.Grid, operand any) (*series.Grid, error) {
	switch op := operand.(type) {
	case string:
		var ref *series.Series
		var err error
		switch op {
		case "mean":
			ref, err = g.MeanAlong(series.AlongX)
		case "median":
			ref, err = g.MedianAlong(series.AlongX)
		default:
			return nil, fmt.Errorf("%w: reduction %q", ErrUnsupportedOperand, op)
		}
		if err != nil {
			return nil, err
		}
		return divideRows(g, ref.Data(), unit.Dimensionless())
	case *series.Series:
		if op.Len() != g.NY() {
			return nil, fmt.Errorf("%w: reference has %d bins, grid rows have %d",
				series.ErrShape, op.Len(), g.NY())
		}
		return divideRows(g, op.Data(), unitOr(g.Meta()).Div(unitOr(op.Meta())))
	case float64:
		return scaleGrid(g, op)
	case float32:
		return scaleGrid(g, float64(op))
	case int:
		return scaleGrid(g, float64(op))
	case int64:
		return scaleGrid(g, float64(op))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, operand)
	}
}

func divideRows(g *series.Grid, ref []float64, u unit.Unit) (*series.Grid, error) {
	data := g.Data()
	out := make([]float64, len(data))
	ny := g.NY()
	for i := 0; i < g.NX(); i++ {
		row := data[i*ny : (i+1)*ny]
		dst := out[i*ny : (i+1)*ny]
		for j, v := range row {
			dst[j] = v / ref[j]
		}
	}
	return regrid(g, out, u)
}

func scaleGrid(g *series.Grid, k float64) (*series.Grid, error) {
	data := g.Data()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v / k
	}
	return regrid(g, out, unit.Dimensionless())
}

// Percentile ranks each frequency column over time and returns the pct-th
// empirical percentile as a frequency series.
func Percentile(g *series.Grid, pct float64) (*series.Series, error) {
	if !(pct >= 0 && pct <= 100) {
		return nil, fmt.Errorf("%w: percentile %g outside [0, 100]", ErrValue, pct)
	}
	nx, ny := g.NX(), g.NY()
	if nx == 0 || ny == 0 {
		return nil, fmt.Errorf("%w: percentile of empty grid", ErrValue)
	}
	data := g.Data()
	out := make([]float64, ny)
	col := make([]float64, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			col[i] = data[i*ny+j]
		}
		sort.Float64s(col)
		out[j] = stat.Quantile(pct/100, stat.Empirical, col, nil)
	}

	opts := []series.Option{
		series.WithXUnit(g.YUnit()),
		series.WithLogX(g.LogY()),
	}
	if y0, err := g.Y0(); err == nil {
		opts = append(opts, series.WithX0(y0))
	}
	if dy, err := g.DY(); err == nil {
		opts = append(opts, series.WithDX(dy))
	}
	if u, ok := g.Meta().UnitOK(); ok {
		opts = append(opts, series.WithUnit(u))
	}
	opts = append(opts, identityOptions(&g.Array)...)
	s, err := series.New(out, opts...)
	if err != nil {
		return nil, err
	}
	if name, ok := g.Name(); ok {
		s.SetName(fmt.Sprintf("%s %g%% percentile", name, pct))
	}
	return s, nil
}

// regrid rebuilds data on g's axes with unit u, keeping axis keys absent
// where g does not carry them.
func regrid(g *series.Grid, data []float64, u unit.Unit) (*series.Grid, error) {
	opts := []series.Option{
		series.WithXUnit(g.XUnit()),
		series.WithYUnit(g.YUnit()),
		series.WithLogX(g.LogX()),
		series.WithLogY(g.LogY()),
		series.WithUnit(u),
	}
	x0, errX0 := g.X0()
	if errX0 == nil {
		opts = append(opts, series.WithX0(x0))
	}
	dx, errDX := g.DX()
	if errDX == nil {
		opts = append(opts, series.WithDX(dx))
	}
	y0, errY0 := g.Y0()
	if errY0 == nil {
		opts = append(opts, series.WithY0(y0))
	}
	dy, errDY := g.DY()
	if errDY == nil {
		opts = append(opts, series.WithDY(dy))
	}
	opts = append(opts, identityOptions(&g.Array)...)
	out, err := series.NewGridFlat(data, g.NX(), g.NY(), opts...)
	if err != nil {
		return nil, err
	}
	if errX0 != nil {
		out.DeleteX0()
	}
	if errDX != nil {
		out.DeleteDX()
	}
	if errY0 != nil {
		out.DeleteY0()
	}
	if errDY != nil {
		out.DeleteDY()
	}
	return out, nil
}
