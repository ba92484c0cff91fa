package series

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-gw/unit"
)

// Series is an annotated array with a single indexed axis. The axis spans
// [x0, x0+N*dx) and defaults to seconds; a channel descriptor with a known
// sample rate supplies the default step.
type Series struct {
	Array
	x Axis
}

// New builds a Series over data. The buffer is shared with the caller
// unless WithCopy is requested. An explicit WithXIndex wins over WithX0
// and WithDX; otherwise the origin defaults to 0 and the step to the
// channel's sample spacing, or 1.
func New(data []float64, opts ...Option) (*Series, error) {
	cfg := newConfig(opts)
	buf := data
	if cfg.forceCopy {
		buf = slices.Clone(data)
	}
	xunit := unit.Second()
	if cfg.xunit != nil {
		xunit = *cfg.xunit
	}
	s := &Series{
		Array: Array{data: buf, shape: []int{len(buf)}},
		x:     newAxis("x", xunit),
	}
	if err := cfg.applyMeta(&s.meta); err != nil {
		return nil, err
	}
	if cfg.logx != nil {
		s.x.log = *cfg.logx
	}
	if cfg.xindex != nil {
		if len(cfg.xindex) != len(buf) {
			return nil, fmt.Errorf("%w: index length %d != data length %d",
				ErrShape, len(cfg.xindex), len(buf))
		}
		if err := s.x.SetIndex(cfg.xindex, s.name()); err != nil {
			return nil, err
		}
		return s, nil
	}
	start := any(0.0)
	if cfg.x0 != nil {
		start = cfg.x0
	}
	if err := s.x.SetStart(start); err != nil {
		return nil, err
	}
	if err := defaultStep(&s.x, cfg.dx, &s.meta); err != nil {
		return nil, err
	}
	return s, nil
}

// defaultStep resolves an axis step: the explicit value when given, else
// the channel's sample spacing when it converts into the axis unit, else 1.
func defaultStep(ax *Axis, explicit any, m *Metadata) error {
	if explicit != nil {
		return ax.SetStep(explicit)
	}
	if c, ok := m.Channel(); ok {
		if q, err := c.SampleStep(); err == nil {
			if ax.SetStep(q) == nil {
				return nil
			}
		}
	}
	return ax.SetStep(1.0)
}

func (s *Series) name() string {
	name, _ := s.meta.Name()
	return name
}

// XAxis exposes the axis descriptor for direct manipulation.
func (s *Series) XAxis() *Axis {
	return &s.x
}

// X0 reports the axis origin.
func (s *Series) X0() (unit.Quantity, error) { return s.x.Start() }

// SetX0 sets the axis origin from a quantity or bare number.
func (s *Series) SetX0(v any) error { return s.x.SetStart(v) }

// DeleteX0 removes the axis origin key.
func (s *Series) DeleteX0() { s.x.DeleteStart() }

// DX reports the axis step.
func (s *Series) DX() (unit.Quantity, error) { return s.x.Step() }

// SetDX sets the axis step from a quantity or bare number.
func (s *Series) SetDX(v any) error { return s.x.SetStep(v) }

// DeleteDX removes the axis step key.
func (s *Series) DeleteDX() { s.x.DeleteStep() }

// LogX reports whether the axis is log-spaced.
func (s *Series) LogX() bool { return s.x.Log() }

// SetLogX toggles log spacing, invalidating the cached index on change.
func (s *Series) SetLogX(log bool) { s.x.SetLog(log) }

// XUnit reports the axis unit.
func (s *Series) XUnit() unit.Unit { return s.x.Unit() }

// SetXUnit converts the axis into a new unit.
func (s *Series) SetXUnit(u unit.Unit) error { return s.x.SetUnit(u) }

// XIndex reports the per-sample axis positions, computing and caching them
// on first access.
func (s *Series) XIndex() (*Series, error) {
	return s.x.Index(len(s.data), s.name())
}

// SetXIndex installs an explicit axis index, resetting x0 and dx from its
// leading samples.
func (s *Series) SetXIndex(values []float64) error {
	if len(values) != len(s.data) {
		return fmt.Errorf("%w: index length %d != data length %d",
			ErrShape, len(values), len(s.data))
	}
	return s.x.SetIndex(values, s.name())
}

// XSpan reports the half-open axis interval covered by the samples.
func (s *Series) XSpan() (lo, hi unit.Quantity, err error) {
	return s.x.Span(len(s.data))
}

// At reports the sample at position i as a quantity in the data unit.
func (s *Series) At(i int) (unit.Quantity, error) {
	if i < 0 || i >= len(s.data) {
		return unit.Quantity{}, fmt.Errorf("%w: index %d out of range [0,%d)",
			ErrValue, i, len(s.data))
	}
	return unit.NewQuantity(s.data[i], s.Unit()), nil
}

// Slice returns the samples in [start,stop) taking every step-th one. The
// bounds clamp to the sample range. The origin moves by start*dx and the
// step scales by step; other metadata is carried unchanged. A unit step
// shares the buffer, larger steps copy.
func (s *Series) Slice(start, stop, step int) (*Series, error) {
	if step < 1 {
		return nil, fmt.Errorf("%w: slice step %d", ErrValue, step)
	}
	start = min(max(start, 0), len(s.data))
	stop = min(max(stop, start), len(s.data))

	out := &Series{x: s.x.copy()}
	out.x.invalidate()
	if step == 1 {
		out.Array = *newArray(s.data[start:stop], []int{stop - start}, s.meta.Copy())
	} else {
		buf := make([]float64, 0, (stop-start+step-1)/step)
		for i := start; i < stop; i += step {
			buf = append(buf, s.data[i])
		}
		out.Array = *newArray(buf, []int{len(buf)}, s.meta.Copy())
	}
	if s.x.index != nil && s.x.index.Len() == len(s.data) && out.Len() > 0 {
		// carry an explicit index through the slice
		vals := make([]float64, 0, out.Len())
		src := s.x.index.Data()
		for i := start; i < stop; i += step {
			vals = append(vals, src[i])
		}
		if err := out.x.SetIndex(vals, out.name()); err != nil {
			return nil, err
		}
		return out, nil
	}
	if out.x.hasStart && out.x.hasStep {
		out.x.start += float64(start) * out.x.step
		out.x.step *= float64(step)
	}
	return out, nil
}

// Copy returns a deep copy with its own buffer, metadata and axis.
func (s *Series) Copy() *Series {
	return &Series{Array: *s.Array.Copy(), x: s.x.copy()}
}

// Equal reports structural equality of samples, metadata and axis keys.
func (s *Series) Equal(o *Series) bool {
	if o == nil {
		return s == nil
	}
	if !s.Array.Equal(&o.Array) {
		return false
	}
	return s.x.sameKeys(&o.x)
}

func (s *Series) withArray(arr *Array) *Series {
	return &Series{Array: *arr, x: s.x.copy()}
}

// Pow raises every sample to the power y and the unit with it.
func (s *Series) Pow(y float64) (*Series, error) {
	arr, err := s.Array.Pow(y)
	if err != nil {
		return nil, err
	}
	return s.withArray(arr), nil
}

// Scale multiplies every sample by k, keeping the unit.
func (s *Series) Scale(k float64) *Series {
	return s.withArray(s.Array.Scale(k))
}

// AddScalar adds k, expressed in the data unit, to every sample.
func (s *Series) AddScalar(k float64) *Series {
	return s.withArray(s.Array.AddScalar(k))
}

// Abs replaces every sample with its absolute value.
func (s *Series) Abs() *Series {
	return s.withArray(s.Array.Abs())
}

// Add returns s+o sample by sample with o converted into s's unit.
func (s *Series) Add(o *Series) (*Series, error) {
	arr, err := s.Array.Add(&o.Array)
	if err != nil {
		return nil, err
	}
	return s.withArray(arr), nil
}

// Sub returns s-o sample by sample with o converted into s's unit.
func (s *Series) Sub(o *Series) (*Series, error) {
	arr, err := s.Array.Sub(&o.Array)
	if err != nil {
		return nil, err
	}
	return s.withArray(arr), nil
}

// Mul returns the elementwise product with the units multiplied.
func (s *Series) Mul(o *Series) (*Series, error) {
	arr, err := s.Array.Mul(&o.Array)
	if err != nil {
		return nil, err
	}
	return s.withArray(arr), nil
}

// Div returns the elementwise quotient with the units divided.
func (s *Series) Div(o *Series) (*Series, error) {
	arr, err := s.Array.Div(&o.Array)
	if err != nil {
		return nil, err
	}
	return s.withArray(arr), nil
}

// Transpose returns a copy; a single axis has nothing to swap.
func (s *Series) Transpose() *Series {
	return s.Copy()
}

// Format renders the sample summary followed by the axis keys.
func (s *Series) Format(cfg FormatConfig) string {
	out := s.Array.Format(cfg)
	if q, err := s.x.Start(); err == nil {
		out += fmt.Sprintf(" x0=%s", q)
	}
	if q, err := s.x.Step(); err == nil {
		out += fmt.Sprintf(" dx=%s", q)
	}
	if s.x.log {
		out += " logx"
	}
	return out
}

// String renders the series with the default format.
func (s *Series) String() string {
	return s.Format(FormatConfig{})
}
