package series

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-gw/gps"
	"github.com/cwbudde/algo-gw/unit"
)

// Axis describes one sample dimension of a Series or Grid: an origin, a
// step, a unit and an optional log-spacing flag. Origin and step are stored
// as bare values in the axis unit. The per-sample index is materialized
// lazily and cached until a setter invalidates it.
type Axis struct {
	label string // "x" or "y", used in key names
	unit  unit.Unit

	start    float64
	step     float64
	hasStart bool
	hasStep  bool
	log      bool

	index *Series // cached index, nil when invalid
}

func newAxis(label string, u unit.Unit) Axis {
	return Axis{label: label, unit: u}
}

// Unit reports the axis unit.
func (a *Axis) Unit() unit.Unit {
	return a.unit
}

// SetUnit changes the axis unit, converting the origin and step into it.
// Incompatible dimensions fail with a unit.ErrMismatch-wrapped error.
func (a *Axis) SetUnit(u unit.Unit) error {
	if a.hasStart {
		q, err := unit.NewQuantity(a.start, a.unit).To(u)
		if err != nil {
			return err
		}
		a.start = q.Value
	}
	if a.hasStep {
		q, err := unit.NewQuantity(a.step, a.unit).To(u)
		if err != nil {
			return err
		}
		a.step = q.Value
	}
	a.unit = u
	a.index = nil
	return nil
}

// Log reports whether the axis is log-spaced.
func (a *Axis) Log() bool {
	return a.log
}

// SetLog toggles log spacing. Any change invalidates the cached index.
func (a *Axis) SetLog(log bool) {
	if a.log != log {
		a.index = nil
	}
	a.log = log
}

// Start reports the axis origin as a quantity in the axis unit. When the
// origin has been deleted it is recovered from a cached index if one is
// present, otherwise Start fails with ErrKeyNotSet.
func (a *Axis) Start() (unit.Quantity, error) {
	v, err := a.startValue()
	if err != nil {
		return unit.Quantity{}, err
	}
	return unit.NewQuantity(v, a.unit), nil
}

func (a *Axis) startValue() (float64, error) {
	if !a.hasStart {
		if a.index == nil || a.index.Len() == 0 {
			return 0, fmt.Errorf("%w: %s0", ErrKeyNotSet, a.label)
		}
		a.start = a.index.Data()[0]
		a.hasStart = true
	}
	return a.start, nil
}

// SetStart sets the axis origin from a unit-bearing quantity or a bare
// number and invalidates the cached index.
func (a *Axis) SetStart(v any) error {
	f, err := a.coerce(v, a.label+"0")
	if err != nil {
		return err
	}
	a.start = f
	a.hasStart = true
	a.index = nil
	return nil
}

// DeleteStart removes the origin. A later read recomputes it from a cached
// index when one is present.
func (a *Axis) DeleteStart() {
	a.hasStart = false
}

// Step reports the axis step as a quantity in the axis unit. When the step
// has been deleted it is recovered from a cached index with at least two
// samples, otherwise Step fails with ErrKeyNotSet.
func (a *Axis) Step() (unit.Quantity, error) {
	v, err := a.stepValue()
	if err != nil {
		return unit.Quantity{}, err
	}
	return unit.NewQuantity(v, a.unit), nil
}

func (a *Axis) stepValue() (float64, error) {
	if !a.hasStep {
		if a.index == nil || a.index.Len() < 2 {
			return 0, fmt.Errorf("%w: d%s", ErrKeyNotSet, a.label)
		}
		data := a.index.Data()
		a.step = data[1] - data[0]
		a.hasStep = true
	}
	return a.step, nil
}

// SetStep sets the axis step from a unit-bearing quantity or a bare number
// and invalidates the cached index.
func (a *Axis) SetStep(v any) error {
	f, err := a.coerce(v, "d"+a.label)
	if err != nil {
		return err
	}
	a.step = f
	a.hasStep = true
	a.index = nil
	return nil
}

// DeleteStep removes the step. A later read recomputes it from a cached
// index when one holds at least two samples.
func (a *Axis) DeleteStep() {
	a.hasStep = false
}

// Span reports the half-open interval covered by n samples, [start,
// start+n*step). An irregular explicit index extends past its last sample
// by the trailing difference instead.
func (a *Axis) Span(n int) (lo, hi unit.Quantity, err error) {
	start, err := a.startValue()
	if err != nil {
		return unit.Quantity{}, unit.Quantity{}, err
	}
	step, err := a.stepValue()
	if err != nil {
		if a.index != nil && a.index.Len() >= 2 {
			data := a.index.Data()
			last := data[len(data)-1]
			tail := last - data[len(data)-2]
			return unit.NewQuantity(start, a.unit), unit.NewQuantity(last+tail, a.unit), nil
		}
		return unit.Quantity{}, unit.Quantity{}, err
	}
	return unit.NewQuantity(start, a.unit), unit.NewQuantity(start+float64(n)*step, a.unit), nil
}

// Index returns the per-sample positions of an n-sample axis as a Series
// in the axis unit, computing and caching them on first access. A cached
// index whose length no longer matches n is recomputed. parentName, when
// non-empty, names the result "<parentName> <label>index".
func (a *Axis) Index(n int, parentName string) (*Series, error) {
	if a.index != nil && a.index.Len() == n {
		return a.index, nil
	}
	start, err := a.startValue()
	if err != nil {
		return nil, err
	}
	step, err := a.stepValue()
	if err != nil {
		return nil, err
	}
	values := make([]float64, n)
	if a.log {
		if start <= 0 {
			return nil, fmt.Errorf("%w: log-spaced axis requires a positive origin, have %s0=%g",
				ErrValue, a.label, start)
		}
		logx0 := math.Log10(start)
		logdx := math.Log10(start+step) - logx0
		logx1 := logx0 + float64(n)*logdx
		if n == 1 {
			values[0] = start
		} else {
			span := logx1 - logx0
			for i := range values {
				values[i] = math.Pow(10, logx0+span*float64(i)/float64(n-1))
			}
		}
	} else {
		for i := range values {
			values[i] = start + float64(i)*step
		}
	}
	a.index = a.newIndex(values, parentName)
	return a.index, nil
}

// SetIndex installs an explicit per-sample index. The origin is reset from
// the first sample and the step from the first difference; a single-sample
// index deletes the step instead. An empty index fails with ErrEmptyIndex.
func (a *Axis) SetIndex(values []float64, parentName string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %sindex", ErrEmptyIndex, a.label)
	}
	a.start = values[0]
	a.hasStart = true
	if len(values) > 1 {
		a.step = values[1] - values[0]
		a.hasStep = true
	} else {
		a.hasStep = false
	}
	a.index = a.newIndex(values, parentName)
	return nil
}

func (a *Axis) newIndex(values []float64, parentName string) *Series {
	opts := []Option{
		WithUnit(a.unit),
		WithXUnit(unit.Dimensionless()),
		WithX0(0.0),
		WithDX(1.0),
	}
	if parentName != "" {
		opts = append(opts, WithName(parentName+" "+a.label+"index"))
	}
	s, err := New(values, opts...)
	if err != nil {
		// all options above are infallible coercions
		panic(err)
	}
	return s
}

func (a *Axis) invalidate() {
	a.index = nil
}

// sameKeys reports whether two axes carry identical key state: origin,
// step, spacing flag and unit.
func (a *Axis) sameKeys(b *Axis) bool {
	return a.hasStart == b.hasStart && (!a.hasStart || a.start == b.start) &&
		a.hasStep == b.hasStep && (!a.hasStep || a.step == b.step) &&
		a.log == b.log && a.unit.Equal(b.unit)
}

func (a *Axis) copy() Axis {
	dup := *a
	if a.index != nil {
		dup.index = a.index.Copy()
	}
	return dup
}

// coerce converts v into a bare value in the axis unit. Quantities convert
// with unit checking, numbers pass through untagged.
func (a *Axis) coerce(v any, key string) (float64, error) {
	switch t := v.(type) {
	case unit.Quantity:
		q, err := t.To(a.unit)
		if err != nil {
			return 0, fmt.Errorf("cannot set %s: %w", key, err)
		}
		return q.Value, nil
	case *unit.Quantity:
		if t == nil {
			return 0, fmt.Errorf("%w: cannot set %s from nil quantity", ErrValue, key)
		}
		return a.coerce(*t, key)
	case gps.Time:
		return float64(t), nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("%w: cannot set %s from %T", ErrValue, key, v)
	}
}
