package series

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-gw/unit"
)

// Grid is an annotated array with two indexed axes laid out row-major:
// sample (i,j) sits at data[i*ny+j]. Axis 0 (x) defaults to seconds and
// axis 1 (y) to hertz, the time-by-frequency shape of a spectrogram.
type Grid struct {
	Array
	x Axis
	y Axis
}

// NewGrid builds a Grid from rows, which must all share one length. The
// samples are always copied into a fresh contiguous buffer.
func NewGrid(rows [][]float64, opts ...Option) (*Grid, error) {
	nx := len(rows)
	ny := 0
	if nx > 0 {
		ny = len(rows[0])
	}
	buf := make([]float64, 0, nx*ny)
	for i, row := range rows {
		if len(row) != ny {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d",
				ErrShape, i, len(row), ny)
		}
		buf = append(buf, row...)
	}
	return newGrid(buf, nx, ny, newConfig(opts))
}

// NewGridFlat builds a Grid over a row-major flat buffer of nx*ny samples.
// The buffer is shared with the caller unless WithCopy is requested.
func NewGridFlat(data []float64, nx, ny int, opts ...Option) (*Grid, error) {
	if nx < 0 || ny < 0 || len(data) != nx*ny {
		return nil, fmt.Errorf("%w: %d samples do not fill %dx%d", ErrShape, len(data), nx, ny)
	}
	cfg := newConfig(opts)
	buf := data
	if cfg.forceCopy {
		buf = slices.Clone(data)
	}
	return newGrid(buf, nx, ny, cfg)
}

func newGrid(buf []float64, nx, ny int, cfg *config) (*Grid, error) {
	xunit := unit.Second()
	if cfg.xunit != nil {
		xunit = *cfg.xunit
	}
	yunit := unit.Hertz()
	if cfg.yunit != nil {
		yunit = *cfg.yunit
	}
	g := &Grid{
		Array: Array{data: buf, shape: []int{nx, ny}},
		x:     newAxis("x", xunit),
		y:     newAxis("y", yunit),
	}
	if err := cfg.applyMeta(&g.meta); err != nil {
		return nil, err
	}
	if cfg.logx != nil {
		g.x.log = *cfg.logx
	}
	if cfg.logy != nil {
		g.y.log = *cfg.logy
	}
	if err := g.setupAxis(&g.x, nx, cfg.xindex, cfg.x0, cfg.dx, true); err != nil {
		return nil, err
	}
	if err := g.setupAxis(&g.y, ny, cfg.yindex, cfg.y0, cfg.dy, false); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) setupAxis(ax *Axis, n int, index []float64, origin, step any, channelStep bool) error {
	if index != nil {
		if len(index) != n {
			return fmt.Errorf("%w: index length %d != axis length %d",
				ErrShape, len(index), n)
		}
		return ax.SetIndex(index, g.name())
	}
	start := any(0.0)
	if origin != nil {
		start = origin
	}
	if err := ax.SetStart(start); err != nil {
		return err
	}
	if channelStep {
		return defaultStep(ax, step, &g.meta)
	}
	if step == nil {
		step = 1.0
	}
	return ax.SetStep(step)
}

func (g *Grid) name() string {
	name, _ := g.meta.Name()
	return name
}

// NX reports the number of rows (axis 0 samples).
func (g *Grid) NX() int { return g.shape[0] }

// NY reports the number of columns (axis 1 samples).
func (g *Grid) NY() int { return g.shape[1] }

// XAxis exposes the row axis descriptor.
func (g *Grid) XAxis() *Axis { return &g.x }

// YAxis exposes the column axis descriptor.
func (g *Grid) YAxis() *Axis { return &g.y }

// X0 reports the row-axis origin.
func (g *Grid) X0() (unit.Quantity, error) { return g.x.Start() }

// SetX0 sets the row-axis origin.
func (g *Grid) SetX0(v any) error { return g.x.SetStart(v) }

// DeleteX0 removes the row-axis origin key.
func (g *Grid) DeleteX0() { g.x.DeleteStart() }

// DX reports the row-axis step.
func (g *Grid) DX() (unit.Quantity, error) { return g.x.Step() }

// SetDX sets the row-axis step.
func (g *Grid) SetDX(v any) error { return g.x.SetStep(v) }

// DeleteDX removes the row-axis step key.
func (g *Grid) DeleteDX() { g.x.DeleteStep() }

// LogX reports whether the row axis is log-spaced.
func (g *Grid) LogX() bool { return g.x.Log() }

// SetLogX toggles row-axis log spacing.
func (g *Grid) SetLogX(log bool) { g.x.SetLog(log) }

// XUnit reports the row-axis unit.
func (g *Grid) XUnit() unit.Unit { return g.x.Unit() }

// SetXUnit converts the row axis into a new unit.
func (g *Grid) SetXUnit(u unit.Unit) error { return g.x.SetUnit(u) }

// XIndex reports the per-row axis positions.
func (g *Grid) XIndex() (*Series, error) { return g.x.Index(g.shape[0], g.name()) }

// SetXIndex installs an explicit row-axis index.
func (g *Grid) SetXIndex(values []float64) error {
	if len(values) != g.shape[0] {
		return fmt.Errorf("%w: index length %d != axis length %d",
			ErrShape, len(values), g.shape[0])
	}
	return g.x.SetIndex(values, g.name())
}

// XSpan reports the half-open row-axis interval.
func (g *Grid) XSpan() (lo, hi unit.Quantity, err error) { return g.x.Span(g.shape[0]) }

// Y0 reports the column-axis origin.
func (g *Grid) Y0() (unit.Quantity, error) { return g.y.Start() }

// SetY0 sets the column-axis origin.
func (g *Grid) SetY0(v any) error { return g.y.SetStart(v) }

// DeleteY0 removes the column-axis origin key.
func (g *Grid) DeleteY0() { g.y.DeleteStart() }

// DY reports the column-axis step.
func (g *Grid) DY() (unit.Quantity, error) { return g.y.Step() }

// SetDY sets the column-axis step.
func (g *Grid) SetDY(v any) error { return g.y.SetStep(v) }

// DeleteDY removes the column-axis step key.
func (g *Grid) DeleteDY() { g.y.DeleteStep() }

// LogY reports whether the column axis is log-spaced.
func (g *Grid) LogY() bool { return g.y.Log() }

// SetLogY toggles column-axis log spacing.
func (g *Grid) SetLogY(log bool) { g.y.SetLog(log) }

// YUnit reports the column-axis unit.
func (g *Grid) YUnit() unit.Unit { return g.y.Unit() }

// SetYUnit converts the column axis into a new unit.
func (g *Grid) SetYUnit(u unit.Unit) error { return g.y.SetUnit(u) }

// YIndex reports the per-column axis positions.
func (g *Grid) YIndex() (*Series, error) { return g.y.Index(g.shape[1], g.name()) }

// SetYIndex installs an explicit column-axis index.
func (g *Grid) SetYIndex(values []float64) error {
	if len(values) != g.shape[1] {
		return fmt.Errorf("%w: index length %d != axis length %d",
			ErrShape, len(values), g.shape[1])
	}
	return g.y.SetIndex(values, g.name())
}

// YSpan reports the half-open column-axis interval.
func (g *Grid) YSpan() (lo, hi unit.Quantity, err error) { return g.y.Span(g.shape[1]) }

// At reports the sample at row i, column j as a bare quantity in the data
// unit; all other metadata is stripped.
func (g *Grid) At(i, j int) (unit.Quantity, error) {
	if i < 0 || i >= g.shape[0] || j < 0 || j >= g.shape[1] {
		return unit.Quantity{}, fmt.Errorf("%w: index (%d,%d) out of range %dx%d",
			ErrValue, i, j, g.shape[0], g.shape[1])
	}
	return unit.NewQuantity(g.data[i*g.shape[1]+j], g.Unit()), nil
}

// Row collapses row i into a Series over the column axis: the series takes
// the column axis's origin, step, unit and spacing as its own x axis and
// shares the row's samples without copying.
func (g *Grid) Row(i int) (*Series, error) {
	if i < 0 || i >= g.shape[0] {
		return nil, fmt.Errorf("%w: row %d out of range [0,%d)", ErrValue, i, g.shape[0])
	}
	ny := g.shape[1]
	out := &Series{
		Array: *newArray(g.data[i*ny:(i+1)*ny], []int{ny}, g.meta.Copy()),
		x:     g.y.copy(),
	}
	out.x.label = "x"
	out.x.invalidate()
	if g.y.index != nil && g.y.index.Len() == ny {
		if err := out.x.SetIndex(slices.Clone(g.y.index.Data()), out.name()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Column collapses column j into a Series over the row axis, copying the
// strided samples into a fresh buffer.
func (g *Grid) Column(j int) (*Series, error) {
	if j < 0 || j >= g.shape[1] {
		return nil, fmt.Errorf("%w: column %d out of range [0,%d)", ErrValue, j, g.shape[1])
	}
	nx, ny := g.shape[0], g.shape[1]
	buf := make([]float64, nx)
	for i := 0; i < nx; i++ {
		buf[i] = g.data[i*ny+j]
	}
	out := &Series{
		Array: *newArray(buf, []int{nx}, g.meta.Copy()),
		x:     g.x.copy(),
	}
	out.x.invalidate()
	if g.x.index != nil && g.x.index.Len() == nx {
		if err := out.x.SetIndex(slices.Clone(g.x.index.Data()), out.name()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SliceX keeps the rows in [start,stop) taking every step-th one, moving
// the row-axis origin by start*dx and scaling its step by step. A unit
// step shares the buffer.
func (g *Grid) SliceX(start, stop, step int) (*Grid, error) {
	if step < 1 {
		return nil, fmt.Errorf("%w: slice step %d", ErrValue, step)
	}
	start = min(max(start, 0), g.shape[0])
	stop = min(max(stop, start), g.shape[0])
	ny := g.shape[1]

	out := &Grid{x: g.x.copy(), y: g.y.copy()}
	out.x.invalidate()
	if step == 1 {
		out.Array = *newArray(g.data[start*ny:stop*ny], []int{stop - start, ny}, g.meta.Copy())
	} else {
		kept := 0
		for i := start; i < stop; i += step {
			kept++
		}
		buf := make([]float64, 0, kept*ny)
		for i := start; i < stop; i += step {
			buf = append(buf, g.data[i*ny:(i+1)*ny]...)
		}
		out.Array = *newArray(buf, []int{kept, ny}, g.meta.Copy())
	}
	if out.x.hasStart && out.x.hasStep {
		out.x.start += float64(start) * out.x.step
		out.x.step *= float64(step)
	}
	return out, nil
}

// SliceY keeps the columns in [start,stop) taking every step-th one,
// moving the column-axis origin by start*dy and scaling its step by step.
// The samples are always copied.
func (g *Grid) SliceY(start, stop, step int) (*Grid, error) {
	if step < 1 {
		return nil, fmt.Errorf("%w: slice step %d", ErrValue, step)
	}
	start = min(max(start, 0), g.shape[1])
	stop = min(max(stop, start), g.shape[1])
	nx, ny := g.shape[0], g.shape[1]
	kept := 0
	for j := start; j < stop; j += step {
		kept++
	}
	buf := make([]float64, 0, nx*kept)
	for i := 0; i < nx; i++ {
		for j := start; j < stop; j += step {
			buf = append(buf, g.data[i*ny+j])
		}
	}
	out := &Grid{
		Array: *newArray(buf, []int{nx, kept}, g.meta.Copy()),
		x:     g.x.copy(),
		y:     g.y.copy(),
	}
	out.y.invalidate()
	if out.y.hasStart && out.y.hasStep {
		out.y.start += float64(start) * out.y.step
		out.y.step *= float64(step)
	}
	return out, nil
}

// Along selects the axis a grid reduction collapses.
type Along int

const (
	// AlongX collapses the rows, leaving one sample per column.
	AlongX Along = iota
	// AlongY collapses the columns, leaving one sample per row.
	AlongY
)

// MaxAlong reduces the grid to its per-column or per-row maxima, wrapped
// as a Series named "<name> max" over the surviving axis.
func (g *Grid) MaxAlong(a Along) (*Series, error) {
	return g.reduce(a, "max", func(acc, v float64, first bool) float64 {
		if first || v > acc {
			return v
		}
		return acc
	})
}

// MinAlong reduces the grid to its per-column or per-row minima.
func (g *Grid) MinAlong(a Along) (*Series, error) {
	return g.reduce(a, "min", func(acc, v float64, first bool) float64 {
		if first || v < acc {
			return v
		}
		return acc
	})
}

// MeanAlong reduces the grid to its per-column or per-row means.
func (g *Grid) MeanAlong(a Along) (*Series, error) {
	s, err := g.reduce(a, "mean", func(acc, v float64, first bool) float64 {
		if first {
			return v
		}
		return acc + v
	})
	if err != nil {
		return nil, err
	}
	n := g.shape[0]
	if a == AlongY {
		n = g.shape[1]
	}
	for i := range s.data {
		s.data[i] /= float64(n)
	}
	return s, nil
}

// MedianAlong reduces the grid to its per-column or per-row medians,
// taking the midpoint of the two central samples for even lengths.
func (g *Grid) MedianAlong(a Along) (*Series, error) {
	if g.shape[0] == 0 || g.shape[1] == 0 {
		return nil, fmt.Errorf("%w: median of empty grid", ErrValue)
	}
	nx, ny := g.shape[0], g.shape[1]
	var out []float64
	if a == AlongX {
		out = make([]float64, ny)
		col := make([]float64, nx)
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				col[i] = g.data[i*ny+j]
			}
			out[j] = median(col)
		}
	} else {
		out = make([]float64, nx)
		for i := 0; i < nx; i++ {
			out[i] = median(g.data[i*ny : (i+1)*ny])
		}
	}
	return g.wrapReduction(a, "median", out), nil
}

func (g *Grid) reduce(a Along, suffix string, fold func(acc, v float64, first bool) float64) (*Series, error) {
	if g.shape[0] == 0 || g.shape[1] == 0 {
		return nil, fmt.Errorf("%w: %s of empty grid", ErrValue, suffix)
	}
	nx, ny := g.shape[0], g.shape[1]
	var out []float64
	if a == AlongX {
		out = make([]float64, ny)
		for j := 0; j < ny; j++ {
			acc := 0.0
			for i := 0; i < nx; i++ {
				acc = fold(acc, g.data[i*ny+j], i == 0)
			}
			out[j] = acc
		}
	} else {
		out = make([]float64, nx)
		for i := 0; i < nx; i++ {
			acc := 0.0
			for j := 0; j < ny; j++ {
				acc = fold(acc, g.data[i*ny+j], j == 0)
			}
			out[i] = acc
		}
	}
	return g.wrapReduction(a, suffix, out), nil
}

// wrapReduction dresses a collapsed buffer as a Series over the surviving
// axis, renaming it "<name> <method>" when the grid is named.
func (g *Grid) wrapReduction(a Along, suffix string, out []float64) *Series {
	meta := g.meta.Copy()
	if name, ok := meta.Name(); ok {
		meta.SetName(name + " " + suffix)
	}
	survivor := &g.y
	if a == AlongY {
		survivor = &g.x
	}
	s := &Series{
		Array: *newArray(out, []int{len(out)}, meta),
		x:     survivor.copy(),
	}
	s.x.label = "x"
	s.x.invalidate()
	return s
}

// Copy returns a deep copy with its own buffer, metadata and axes.
func (g *Grid) Copy() *Grid {
	return &Grid{Array: *g.Array.Copy(), x: g.x.copy(), y: g.y.copy()}
}

// Equal reports structural equality of samples, metadata and both axes.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil {
		return g == nil
	}
	if !g.Array.Equal(&o.Array) {
		return false
	}
	return g.x.sameKeys(&o.x) && g.y.sameKeys(&o.y)
}

// Transpose swaps rows and columns, exchanging the two axes.
func (g *Grid) Transpose() *Grid {
	out := &Grid{Array: *g.Array.Transpose(), x: g.y.copy(), y: g.x.copy()}
	out.x.label = "x"
	out.y.label = "y"
	out.x.invalidate()
	out.y.invalidate()
	return out
}

func (g *Grid) withArray(arr *Array) *Grid {
	return &Grid{Array: *arr, x: g.x.copy(), y: g.y.copy()}
}

// Pow raises every sample to the power y and the unit with it.
func (g *Grid) Pow(y float64) (*Grid, error) {
	arr, err := g.Array.Pow(y)
	if err != nil {
		return nil, err
	}
	return g.withArray(arr), nil
}

// Scale multiplies every sample by k, keeping the unit.
func (g *Grid) Scale(k float64) *Grid {
	return g.withArray(g.Array.Scale(k))
}

// AddScalar adds k, expressed in the data unit, to every sample.
func (g *Grid) AddScalar(k float64) *Grid {
	return g.withArray(g.Array.AddScalar(k))
}

// Abs replaces every sample with its absolute value.
func (g *Grid) Abs() *Grid {
	return g.withArray(g.Array.Abs())
}

// Add returns g+o sample by sample with o converted into g's unit.
func (g *Grid) Add(o *Grid) (*Grid, error) {
	arr, err := g.Array.Add(&o.Array)
	if err != nil {
		return nil, err
	}
	return g.withArray(arr), nil
}

// Sub returns g-o sample by sample with o converted into g's unit.
func (g *Grid) Sub(o *Grid) (*Grid, error) {
	arr, err := g.Array.Sub(&o.Array)
	if err != nil {
		return nil, err
	}
	return g.withArray(arr), nil
}

// Mul returns the elementwise product with the units multiplied.
func (g *Grid) Mul(o *Grid) (*Grid, error) {
	arr, err := g.Array.Mul(&o.Array)
	if err != nil {
		return nil, err
	}
	return g.withArray(arr), nil
}

// Div returns the elementwise quotient with the units divided.
func (g *Grid) Div(o *Grid) (*Grid, error) {
	arr, err := g.Array.Div(&o.Array)
	if err != nil {
		return nil, err
	}
	return g.withArray(arr), nil
}

// Format renders the sample summary followed by both axes' keys.
func (g *Grid) Format(cfg FormatConfig) string {
	out := fmt.Sprintf("%dx%d %s", g.shape[0], g.shape[1], g.Array.Format(cfg))
	if q, err := g.x.Start(); err == nil {
		out += fmt.Sprintf(" x0=%s", q)
	}
	if q, err := g.x.Step(); err == nil {
		out += fmt.Sprintf(" dx=%s", q)
	}
	if q, err := g.y.Start(); err == nil {
		out += fmt.Sprintf(" y0=%s", q)
	}
	if q, err := g.y.Step(); err == nil {
		out += fmt.Sprintf(" dy=%s", q)
	}
	return out
}

// String renders the grid with the default format.
func (g *Grid) String() string {
	return g.Format(FormatConfig{})
}
