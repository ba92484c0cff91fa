package series

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-gw/detector"
	"github.com/cwbudde/algo-gw/gps"
	"github.com/cwbudde/algo-gw/unit"
)

// Array couples a contiguous float64 buffer with a Metadata container.
// Constructors wrap the input as a view unless WithCopy is given; every
// derived instance owns a fresh buffer and a detached metadata copy.
type Array struct {
	data  []float64
	shape []int
	meta  Metadata
}

// NewArray builds a one-dimensional annotated array over data. The buffer
// is shared with the caller unless WithCopy is requested.
func NewArray(data []float64, opts ...Option) (*Array, error) {
	cfg := newConfig(opts)
	buf := data
	if cfg.forceCopy {
		buf = slices.Clone(data)
	}
	x := &Array{data: buf, shape: []int{len(buf)}}
	if err := cfg.applyMeta(&x.meta); err != nil {
		return nil, err
	}
	return x, nil
}

// Derive builds an array from an existing one. With no options the source
// itself is returned; callers must not rely on distinct identity. With
// options the result shares the source buffer (unless WithCopy) and
// carries a detached metadata copy with the options applied on top.
func Derive(src *Array, opts ...Option) (*Array, error) {
	cfg := newConfig(opts)
	if !cfg.hasOptions() {
		return src, nil
	}
	buf := src.data
	if cfg.forceCopy {
		buf = slices.Clone(src.data)
	}
	x := &Array{data: buf, shape: slices.Clone(src.shape), meta: src.meta.Copy()}
	if err := cfg.applyMeta(&x.meta); err != nil {
		return nil, err
	}
	return x, nil
}

func newArray(data []float64, shape []int, meta Metadata) *Array {
	return &Array{data: data, shape: shape, meta: meta}
}

// Data exposes the underlying buffer without copying.
func (x *Array) Data() []float64 {
	return x.data
}

// Len reports the total number of samples.
func (x *Array) Len() int {
	return len(x.data)
}

// Shape reports a copy of the dimension sizes.
func (x *Array) Shape() []int {
	return slices.Clone(x.shape)
}

// NDim reports the number of dimensions.
func (x *Array) NDim() int {
	return len(x.shape)
}

// Meta exposes the metadata container for direct key access.
func (x *Array) Meta() *Metadata {
	return &x.meta
}

// Name reports the name metadata.
func (x *Array) Name() (string, bool) { return x.meta.Name() }

// SetName sets the name metadata.
func (x *Array) SetName(name string) { x.meta.SetName(name) }

// Unit reports the data unit, lazily defaulting to dimensionless.
func (x *Array) Unit() unit.Unit { return x.meta.Unit() }

// SetUnit sets the data unit.
func (x *Array) SetUnit(u unit.Unit) { x.meta.SetUnit(u) }

// Epoch reports the epoch metadata.
func (x *Array) Epoch() (gps.Time, bool) { return x.meta.Epoch() }

// SetEpoch sets the epoch from any accepted time value.
func (x *Array) SetEpoch(v any) error { return x.meta.SetEpoch(v) }

// Channel reports the attached channel descriptor.
func (x *Array) Channel() (*detector.Channel, bool) { return x.meta.Channel() }

// SetChannel attaches a channel descriptor.
func (x *Array) SetChannel(c *detector.Channel) { x.meta.SetChannel(c) }

// Reshape returns a view of the samples under a new dimension layout; the
// sizes must multiply to the sample count. The buffer is shared, the
// metadata copied.
func (x *Array) Reshape(shape ...int) (*Array, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrShape, d)
		}
		n *= d
	}
	if n != len(x.data) || len(shape) == 0 {
		return nil, fmt.Errorf("%w: cannot reshape %d samples into %v",
			ErrShape, len(x.data), shape)
	}
	return newArray(x.data, slices.Clone(shape), x.meta.Copy()), nil
}

// Copy returns a deep copy with its own buffer and metadata.
func (x *Array) Copy() *Array {
	return newArray(slices.Clone(x.data), slices.Clone(x.shape), x.meta.Copy())
}

// Equal reports structural equality: shape, exact sample values and
// metadata.
func (x *Array) Equal(o *Array) bool {
	if o == nil {
		return x == nil
	}
	if !slices.Equal(x.shape, o.shape) || !slices.Equal(x.data, o.data) {
		return false
	}
	return x.meta.Equal(&o.meta)
}

// Pow raises every sample to the power y and the unit with it. Non-integer
// powers require either a dimensionless unit or an exactly invertible root.
func (x *Array) Pow(y float64) (*Array, error) {
	u, err := powUnit(x.Unit(), y)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x.data))
	if y == 2 {
		vecmath.MulBlock(out, x.data, x.data)
	} else {
		for i, v := range x.data {
			out[i] = math.Pow(v, y)
		}
	}
	meta := x.meta.Copy()
	meta.SetUnit(u)
	return newArray(out, slices.Clone(x.shape), meta), nil
}

func powUnit(u unit.Unit, y float64) (unit.Unit, error) {
	if n := math.Round(y); math.Abs(y-n) < 1e-9 {
		return u.Pow(int(n)), nil
	}
	scale, exps := u.Parts()
	if len(exps) == 0 {
		pu, err := unit.FromParts(math.Pow(scale, y), nil)
		if err != nil {
			return unit.Unit{}, err
		}
		return pu, nil
	}
	if inv := 1 / y; math.Abs(inv-math.Round(inv)) < 1e-9 {
		n := int(math.Round(inv))
		neg := n < 0
		if neg {
			n = -n
		}
		root, err := u.Root(n)
		if err != nil {
			return unit.Unit{}, err
		}
		if neg {
			root = root.Pow(-1)
		}
		return root, nil
	}
	return unit.Unit{}, fmt.Errorf("%w: cannot raise unit %s to non-integer power %g", ErrValue, u, y)
}

// Scale multiplies every sample by k, keeping the unit.
func (x *Array) Scale(k float64) *Array {
	out := make([]float64, len(x.data))
	vecmath.ScaleBlock(out, x.data, k)
	return newArray(out, slices.Clone(x.shape), x.meta.Copy())
}

// AddScalar adds k, expressed in the data unit, to every sample.
func (x *Array) AddScalar(k float64) *Array {
	out := make([]float64, len(x.data))
	for i, v := range x.data {
		out[i] = v + k
	}
	return newArray(out, slices.Clone(x.shape), x.meta.Copy())
}

// Abs replaces every sample with its absolute value.
func (x *Array) Abs() *Array {
	out := make([]float64, len(x.data))
	for i, v := range x.data {
		out[i] = math.Abs(v)
	}
	return newArray(out, slices.Clone(x.shape), x.meta.Copy())
}

// Add returns x+o with o converted into x's unit first. Mismatched shapes
// fail with ErrShape, incompatible units with a unit.ErrMismatch-wrapped
// error. The result carries x's metadata.
func (x *Array) Add(o *Array) (*Array, error) {
	return x.addScaled(o, 1)
}

// Sub returns x-o with o converted into x's unit first.
func (x *Array) Sub(o *Array) (*Array, error) {
	return x.addScaled(o, -1)
}

func (x *Array) addScaled(o *Array, sign float64) (*Array, error) {
	if !slices.Equal(x.shape, o.shape) {
		return nil, fmt.Errorf("%w: %v != %v", ErrShape, o.shape, x.shape)
	}
	q, err := unit.NewQuantity(1, o.Unit()).To(x.Unit())
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x.data))
	copy(out, x.data)
	tmp := make([]float64, len(o.data))
	vecmath.ScaleBlock(tmp, o.data, sign*q.Value)
	vecmath.AddBlockInPlace(out, tmp)
	return newArray(out, slices.Clone(x.shape), x.meta.Copy()), nil
}

// Mul returns the elementwise product with the units multiplied.
func (x *Array) Mul(o *Array) (*Array, error) {
	if !slices.Equal(x.shape, o.shape) {
		return nil, fmt.Errorf("%w: %v != %v", ErrShape, o.shape, x.shape)
	}
	out := make([]float64, len(x.data))
	vecmath.MulBlock(out, x.data, o.data)
	meta := x.meta.Copy()
	meta.SetUnit(x.Unit().Mul(o.Unit()))
	return newArray(out, slices.Clone(x.shape), meta), nil
}

// Div returns the elementwise quotient with the units divided.
func (x *Array) Div(o *Array) (*Array, error) {
	if !slices.Equal(x.shape, o.shape) {
		return nil, fmt.Errorf("%w: %v != %v", ErrShape, o.shape, x.shape)
	}
	out := make([]float64, len(x.data))
	for i, v := range x.data {
		out[i] = v / o.data[i]
	}
	meta := x.meta.Copy()
	meta.SetUnit(x.Unit().Div(o.Unit()))
	return newArray(out, slices.Clone(x.shape), meta), nil
}

// Min reports the smallest sample as a quantity in the data unit.
func (x *Array) Min() (unit.Quantity, error) {
	if len(x.data) == 0 {
		return unit.Quantity{}, fmt.Errorf("%w: min of empty array", ErrValue)
	}
	return unit.NewQuantity(slices.Min(x.data), x.Unit()), nil
}

// Max reports the largest sample as a quantity in the data unit.
func (x *Array) Max() (unit.Quantity, error) {
	if len(x.data) == 0 {
		return unit.Quantity{}, fmt.Errorf("%w: max of empty array", ErrValue)
	}
	return unit.NewQuantity(slices.Max(x.data), x.Unit()), nil
}

// Sum reports the sample total as a quantity in the data unit.
func (x *Array) Sum() (unit.Quantity, error) {
	if len(x.data) == 0 {
		return unit.Quantity{}, fmt.Errorf("%w: sum of empty array", ErrValue)
	}
	var total float64
	for _, v := range x.data {
		total += v
	}
	return unit.NewQuantity(total, x.Unit()), nil
}

// Mean reports the sample mean as a quantity in the data unit.
func (x *Array) Mean() (unit.Quantity, error) {
	total, err := x.Sum()
	if err != nil {
		return unit.Quantity{}, fmt.Errorf("%w: mean of empty array", ErrValue)
	}
	total.Value /= float64(len(x.data))
	return total, nil
}

// RMS reports the root mean square of the samples as a quantity in the
// data unit.
func (x *Array) RMS() (unit.Quantity, error) {
	if len(x.data) == 0 {
		return unit.Quantity{}, fmt.Errorf("%w: rms of empty array", ErrValue)
	}
	var sum float64
	for _, v := range x.data {
		sum += v * v
	}
	return unit.NewQuantity(math.Sqrt(sum/float64(len(x.data))), x.Unit()), nil
}

// Median reports the sample median as a quantity in the data unit, taking
// the midpoint of the two central samples for even lengths.
func (x *Array) Median() (unit.Quantity, error) {
	if len(x.data) == 0 {
		return unit.Quantity{}, fmt.Errorf("%w: median of empty array", ErrValue)
	}
	return unit.NewQuantity(median(x.data), x.Unit()), nil
}

func median(data []float64) float64 {
	sorted := slices.Clone(data)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Transpose reverses the dimension order. One-dimensional arrays copy
// through unchanged; two-dimensional arrays swap rows and columns.
func (x *Array) Transpose() *Array {
	if len(x.shape) < 2 {
		return x.Copy()
	}
	rows, cols := x.shape[0], x.shape[1]
	out := make([]float64, len(x.data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = x.data[i*cols+j]
		}
	}
	return newArray(out, []int{cols, rows}, x.meta.Copy())
}

// FormatConfig controls Format output. The zero value shows eight samples
// with %g rendering.
type FormatConfig struct {
	// MaxSamples bounds the number of samples printed before eliding the
	// middle of the buffer. Zero means eight.
	MaxSamples int
}

// Format renders a one-line summary of the samples and metadata.
func (x *Array) Format(cfg FormatConfig) string {
	maxSamples := cfg.MaxSamples
	if maxSamples <= 0 {
		maxSamples = 8
	}
	var b strings.Builder
	b.WriteString("[")
	if len(x.data) <= maxSamples {
		for i, v := range x.data {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", v)
		}
	} else {
		head := maxSamples / 2
		tail := maxSamples - head
		for i := 0; i < head; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", x.data[i])
		}
		b.WriteString(", ...")
		for i := len(x.data) - tail; i < len(x.data); i++ {
			fmt.Fprintf(&b, ", %g", x.data[i])
		}
	}
	b.WriteString("]")
	if name, ok := x.meta.Name(); ok {
		fmt.Fprintf(&b, " name=%q", name)
	}
	if u, ok := x.meta.UnitOK(); ok {
		fmt.Fprintf(&b, " unit=%s", u)
	}
	if epoch, ok := x.meta.Epoch(); ok {
		fmt.Fprintf(&b, " epoch=%s", epoch)
	}
	return b.String()
}

// String renders the array with the default format.
func (x *Array) String() string {
	return x.Format(FormatConfig{})
}
