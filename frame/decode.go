package frame

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-gw/detector"
	"github.com/cwbudde/algo-gw/gps"
	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/unit"
)

// Decode deserializes a frame of any kind. The result is a *series.Array,
// *series.Series or *series.Grid depending on the stored kind byte.
func Decode(data []byte) (any, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	switch h.kind {
	case KindArray:
		return decodeArray(h, data)
	case KindSeries:
		return decodeSeries(h, data)
	default:
		return decodeGrid(h, data)
	}
}

// DecodeArray deserializes a bare array frame.
func DecodeArray(data []byte) (*series.Array, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.kind != KindArray {
		return nil, fmt.Errorf("%w: frame holds a %s, not an array", ErrKindMismatch, h.kind)
	}
	return decodeArray(h, data)
}

// DecodeSeries deserializes a series frame.
func DecodeSeries(data []byte) (*series.Series, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.kind != KindSeries {
		return nil, fmt.Errorf("%w: frame holds a %s, not a series", ErrKindMismatch, h.kind)
	}
	return decodeSeries(h, data)
}

// DecodeGrid deserializes a grid frame.
func DecodeGrid(data []byte) (*series.Grid, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.kind != KindGrid {
		return nil, fmt.Errorf("%w: frame holds a %s, not a grid", ErrKindMismatch, h.kind)
	}
	return decodeGrid(h, data)
}

func decodeArray(h header, data []byte) (*series.Array, error) {
	r := &reader{buf: data, off: headerSize, engine: h.engine()}
	shape, n, err := r.shape(h.ndim)
	if err != nil {
		return nil, err
	}
	opts, err := r.metadata()
	if err != nil {
		return nil, err
	}
	samples, err := r.samples(h.compression, n)
	if err != nil {
		return nil, err
	}
	x, err := series.NewArray(samples, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if len(shape) == 1 {
		return x, nil
	}
	out, err := x.Reshape(shape...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return out, nil
}

func decodeSeries(h header, data []byte) (*series.Series, error) {
	r := &reader{buf: data, off: headerSize, engine: h.engine()}
	_, n, err := r.shape(1)
	if err != nil {
		return nil, err
	}
	opts, err := r.metadata()
	if err != nil {
		return nil, err
	}
	ax, err := r.axis()
	if err != nil {
		return nil, err
	}
	samples, err := r.samples(h.compression, n)
	if err != nil {
		return nil, err
	}
	s, err := series.New(samples, append(opts, ax.xOptions()...)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	// A constructor always resolves an origin and step; drop the keys the
	// frame did not carry so absence survives the round trip.
	if !ax.hasStart {
		s.DeleteX0()
	}
	if !ax.hasStep {
		s.DeleteDX()
	}
	return s, nil
}

func decodeGrid(h header, data []byte) (*series.Grid, error) {
	r := &reader{buf: data, off: headerSize, engine: h.engine()}
	shape, n, err := r.shape(2)
	if err != nil {
		return nil, err
	}
	opts, err := r.metadata()
	if err != nil {
		return nil, err
	}
	ax, err := r.axis()
	if err != nil {
		return nil, err
	}
	ay, err := r.axis()
	if err != nil {
		return nil, err
	}
	samples, err := r.samples(h.compression, n)
	if err != nil {
		return nil, err
	}
	opts = append(opts, ax.xOptions()...)
	opts = append(opts, ay.yOptions()...)
	g, err := series.NewGridFlat(samples, shape[0], shape[1], opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if !ax.hasStart {
		g.DeleteX0()
	}
	if !ax.hasStep {
		g.DeleteDX()
	}
	if !ay.hasStart {
		g.DeleteY0()
	}
	if !ay.hasStep {
		g.DeleteDY()
	}
	return g, nil
}

// reader is a bounds-checked cursor over the frame bytes.
type reader struct {
	buf    []byte
	off    int
	engine endianEngine
}

func (r *reader) need(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, fmt.Errorf("%w: truncated at byte %d", ErrInvalidFrame, r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.need(2)
	if err != nil {
		return 0, err
	}
	return r.engine.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return r.engine.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.need(8)
	if err != nil {
		return 0, err
	}
	return r.engine.Uint64(b), nil
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	return math.Float64frombits(v), err
}

func (r *reader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.need(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) shape(ndim int) ([]int, int, error) {
	shape := make([]int, ndim)
	total := 1
	for i := range shape {
		d, err := r.u64()
		if err != nil {
			return nil, 0, err
		}
		if d > math.MaxInt32 {
			return nil, 0, fmt.Errorf("%w: dimension of %d samples", ErrInvalidFrame, d)
		}
		shape[i] = int(d)
		total *= shape[i]
		if total > math.MaxInt32 {
			return nil, 0, fmt.Errorf("%w: %d samples exceed the decoder limit", ErrInvalidFrame, total)
		}
	}
	return shape, total, nil
}

// metadata reads the length-prefixed block and returns it as constructor
// options. The block length must match its contents exactly.
func (r *reader) metadata() ([]series.Option, error) {
	blockLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	end := r.off + int(blockLen)
	if end > len(r.buf) {
		return nil, fmt.Errorf("%w: metadata block of %d bytes at byte %d",
			ErrInvalidFrame, blockLen, r.off)
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	if flags&^(metaHasName|metaHasUnit|metaHasEpoch|metaHasChannel) != 0 {
		return nil, fmt.Errorf("%w: metadata flags %#x", ErrInvalidFrame, flags)
	}
	var opts []series.Option
	if flags&metaHasName != 0 {
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithName(name))
	}
	if flags&metaHasUnit != 0 {
		u, err := r.unit()
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithUnit(u))
	}
	if flags&metaHasEpoch != 0 {
		sec, err := r.f64()
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithEpoch(gps.Time(sec)))
	}
	if flags&metaHasChannel != 0 {
		c, err := r.channel()
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithChannel(c))
	}
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(count); i++ {
		key, err := r.str()
		if err != nil {
			return nil, err
		}
		v, err := r.extra()
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithExtra(key, v))
	}
	if r.off != end {
		return nil, fmt.Errorf("%w: metadata block length %d does not match its contents",
			ErrInvalidFrame, blockLen)
	}
	return opts, nil
}

func (r *reader) extra() (any, error) {
	kind, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch kind {
	case extraString:
		return r.str()
	case extraInt64:
		v, err := r.u64()
		return int64(v), err
	case extraFloat64:
		return r.f64()
	case extraBool:
		v, err := r.u8()
		if err != nil {
			return nil, err
		}
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, fmt.Errorf("%w: boolean byte %d", ErrInvalidFrame, v)
		}
	default:
		return nil, fmt.Errorf("%w: metadata value kind %d", ErrInvalidFrame, kind)
	}
}

func (r *reader) unit() (unit.Unit, error) {
	scale, err := r.f64()
	if err != nil {
		return unit.Unit{}, err
	}
	n, err := r.u8()
	if err != nil {
		return unit.Unit{}, err
	}
	exps := make(map[string]int, n)
	for i := 0; i < int(n); i++ {
		symLen, err := r.u8()
		if err != nil {
			return unit.Unit{}, err
		}
		sym, err := r.need(int(symLen))
		if err != nil {
			return unit.Unit{}, err
		}
		exp, err := r.u8()
		if err != nil {
			return unit.Unit{}, err
		}
		exps[string(sym)] = int(int8(exp))
	}
	u, err := unit.FromParts(scale, exps)
	if err != nil {
		return unit.Unit{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return u, nil
}

func (r *reader) channel() (*detector.Channel, error) {
	name, err := r.str()
	if err != nil {
		return nil, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	if flags&^(chanHasUnit|chanHasRate) != 0 {
		return nil, fmt.Errorf("%w: channel flags %#x", ErrInvalidFrame, flags)
	}
	var opts []detector.Option
	if flags&chanHasUnit != 0 {
		u, err := r.unit()
		if err != nil {
			return nil, err
		}
		opts = append(opts, detector.WithUnit(u))
	}
	if flags&chanHasRate != 0 {
		v, err := r.f64()
		if err != nil {
			return nil, err
		}
		u, err := r.unit()
		if err != nil {
			return nil, err
		}
		opts = append(opts, detector.WithSampleRateQuantity(unit.NewQuantity(v, u)))
	}
	c, err := detector.NewChannel(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return c, nil
}

type axisBlock struct {
	hasStart bool
	hasStep  bool
	log      bool
	start    float64
	step     float64
	unit     unit.Unit
}

func (r *reader) axis() (axisBlock, error) {
	flags, err := r.u8()
	if err != nil {
		return axisBlock{}, err
	}
	if flags&^(axisHasStart|axisHasStep|axisLog) != 0 {
		return axisBlock{}, fmt.Errorf("%w: axis flags %#x", ErrInvalidFrame, flags)
	}
	ax := axisBlock{
		hasStart: flags&axisHasStart != 0,
		hasStep:  flags&axisHasStep != 0,
		log:      flags&axisLog != 0,
	}
	if ax.hasStart {
		if ax.start, err = r.f64(); err != nil {
			return axisBlock{}, err
		}
	}
	if ax.hasStep {
		if ax.step, err = r.f64(); err != nil {
			return axisBlock{}, err
		}
	}
	if ax.unit, err = r.unit(); err != nil {
		return axisBlock{}, err
	}
	return ax, nil
}

func (ax axisBlock) xOptions() []series.Option {
	opts := []series.Option{series.WithXUnit(ax.unit)}
	if ax.hasStart {
		opts = append(opts, series.WithX0(ax.start))
	}
	if ax.hasStep {
		opts = append(opts, series.WithDX(ax.step))
	}
	if ax.log {
		opts = append(opts, series.WithLogX(true))
	}
	return opts
}

func (ax axisBlock) yOptions() []series.Option {
	opts := []series.Option{series.WithYUnit(ax.unit)}
	if ax.hasStart {
		opts = append(opts, series.WithY0(ax.start))
	}
	if ax.hasStep {
		opts = append(opts, series.WithDY(ax.step))
	}
	if ax.log {
		opts = append(opts, series.WithLogY(true))
	}
	return opts
}

// samples reads the raw length and decompresses the remaining payload
// bytes into n floats.
func (r *reader) samples(comp Compression, n int) ([]float64, error) {
	rawLen, err := r.u64()
	if err != nil {
		return nil, err
	}
	if rawLen != uint64(n)*8 {
		return nil, fmt.Errorf("%w: payload of %d raw bytes does not hold %d samples",
			ErrInvalidFrame, rawLen, n)
	}
	rest := r.buf[r.off:]
	if rawLen == 0 {
		if len(rest) != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes after empty payload",
				ErrInvalidFrame, len(rest))
		}
		return nil, nil
	}
	c, err := codecFor(comp)
	if err != nil {
		return nil, err
	}
	raw, err := c.decompress(rest, int(rawLen))
	if err != nil {
		return nil, err
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Float64frombits(r.engine.Uint64(raw[8*i:]))
	}
	return data, nil
}
