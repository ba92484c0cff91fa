package frame

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-gw/detector"
	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/unit"
)

// Metadata presence flags.
const (
	metaHasName    = 1 << 0
	metaHasUnit    = 1 << 1
	metaHasEpoch   = 1 << 2
	metaHasChannel = 1 << 3
)

// Channel presence flags.
const (
	chanHasUnit = 1 << 0
	chanHasRate = 1 << 1
)

// Axis flags.
const (
	axisHasStart = 1 << 0
	axisHasStep  = 1 << 1
	axisLog      = 1 << 2
)

// Extra value kinds.
const (
	extraString  = 1
	extraInt64   = 2
	extraFloat64 = 3
	extraBool    = 4
)

// EncodeArray serializes a bare annotated array.
func EncodeArray(x *series.Array, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	shape := x.Shape()
	if len(shape) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: %d dimensions", ErrTooLarge, len(shape))
	}
	w, err := newWriter(KindArray, len(shape), cfg)
	if err != nil {
		return nil, err
	}
	for _, d := range shape {
		w.u64(uint64(d))
	}
	if err := w.metadata(x.Meta()); err != nil {
		return nil, err
	}
	if err := w.payload(x.Data(), cfg.compression); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// EncodeSeries serializes a series with its axis keys. An explicit
// per-sample index is reduced to its origin and step.
func EncodeSeries(s *series.Series, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	w, err := newWriter(KindSeries, 1, cfg)
	if err != nil {
		return nil, err
	}
	w.u64(uint64(s.Len()))
	if err := w.metadata(s.Meta()); err != nil {
		return nil, err
	}
	if err := w.axis(s.X0, s.DX, s.LogX(), s.XUnit()); err != nil {
		return nil, err
	}
	if err := w.payload(s.Data(), cfg.compression); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// EncodeGrid serializes a grid with both axes, rows first.
func EncodeGrid(g *series.Grid, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	w, err := newWriter(KindGrid, 2, cfg)
	if err != nil {
		return nil, err
	}
	w.u64(uint64(g.NX()))
	w.u64(uint64(g.NY()))
	if err := w.metadata(g.Meta()); err != nil {
		return nil, err
	}
	if err := w.axis(g.X0, g.DX, g.LogX(), g.XUnit()); err != nil {
		return nil, err
	}
	if err := w.axis(g.Y0, g.DY, g.LogY(), g.YUnit()); err != nil {
		return nil, err
	}
	if err := w.payload(g.Data(), cfg.compression); err != nil {
		return nil, err
	}
	return w.buf, nil
}

type writer struct {
	buf    []byte
	engine endianEngine
}

func newWriter(kind Kind, ndim int, cfg *config) (*writer, error) {
	if cfg.compression > LZ4 {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFrame, cfg.compression)
	}
	h := header{
		littleEndian: !cfg.bigEndian,
		kind:         kind,
		compression:  cfg.compression,
		ndim:         ndim,
	}
	return &writer{buf: h.appendTo(nil), engine: h.engine()}, nil
}

func (w *writer) u8(v byte)     { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16)  { w.buf = w.engine.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32)  { w.buf = w.engine.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64)  { w.buf = w.engine.AppendUint64(w.buf, v) }
func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) str(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: string of %d bytes", ErrTooLarge, len(s))
	}
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

// metadata writes the length-prefixed metadata block: a presence flags
// byte, the present recognized keys in fixed order, then the extras.
func (w *writer) metadata(m *series.Metadata) error {
	lenAt := len(w.buf)
	w.u32(0)

	var flags byte
	name, hasName := m.Name()
	if hasName {
		flags |= metaHasName
	}
	u, hasUnit := m.UnitOK()
	if hasUnit {
		flags |= metaHasUnit
	}
	epoch, hasEpoch := m.Epoch()
	if hasEpoch {
		flags |= metaHasEpoch
	}
	ch, hasChannel := m.Channel()
	if hasChannel {
		flags |= metaHasChannel
	}
	w.u8(flags)
	if hasName {
		if err := w.str(name); err != nil {
			return err
		}
	}
	if hasUnit {
		if err := w.unit(u); err != nil {
			return err
		}
	}
	if hasEpoch {
		w.f64(epoch.Seconds())
	}
	if hasChannel {
		if err := w.channel(ch); err != nil {
			return err
		}
	}

	extras := m.Extras()
	if len(extras) > math.MaxUint16 {
		return fmt.Errorf("%w: %d extra entries", ErrTooLarge, len(extras))
	}
	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.u16(uint16(len(keys)))
	for _, k := range keys {
		if err := w.str(k); err != nil {
			return err
		}
		if err := w.extra(extras[k]); err != nil {
			return err
		}
	}

	blockLen := len(w.buf) - lenAt - 4
	if blockLen > math.MaxUint32 {
		return fmt.Errorf("%w: metadata block of %d bytes", ErrTooLarge, blockLen)
	}
	w.engine.PutUint32(w.buf[lenAt:lenAt+4], uint32(blockLen))
	return nil
}

func (w *writer) extra(v any) error {
	switch x := v.(type) {
	case string:
		w.u8(extraString)
		return w.str(x)
	case int64:
		w.u8(extraInt64)
		w.u64(uint64(x))
	case float64:
		w.u8(extraFloat64)
		w.f64(x)
	case bool:
		w.u8(extraBool)
		if x {
			w.u8(1)
		} else {
			w.u8(0)
		}
	default:
		return fmt.Errorf("%w: metadata value of type %T", ErrTooLarge, v)
	}
	return nil
}

// unit writes the structural form: scale, then the dimension exponents
// keyed by symbol in sorted order. Display symbols are not carried.
func (w *writer) unit(u unit.Unit) error {
	scale, exps := u.Parts()
	w.f64(scale)
	syms := make([]string, 0, len(exps))
	for sym := range exps {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	if len(syms) > math.MaxUint8 {
		return fmt.Errorf("%w: %d unit dimensions", ErrTooLarge, len(syms))
	}
	w.u8(byte(len(syms)))
	for _, sym := range syms {
		exp := exps[sym]
		if len(sym) > math.MaxUint8 {
			return fmt.Errorf("%w: dimension symbol of %d bytes", ErrTooLarge, len(sym))
		}
		if exp < math.MinInt8 || exp > math.MaxInt8 {
			return fmt.Errorf("%w: dimension exponent %d", ErrTooLarge, exp)
		}
		w.u8(byte(len(sym)))
		w.buf = append(w.buf, sym...)
		w.u8(byte(int8(exp)))
	}
	return nil
}

func (w *writer) channel(c *detector.Channel) error {
	if err := w.str(c.Name()); err != nil {
		return err
	}
	var flags byte
	u, hasUnit := c.Unit()
	if hasUnit {
		flags |= chanHasUnit
	}
	rate, hasRate := c.SampleRate()
	if hasRate {
		flags |= chanHasRate
	}
	w.u8(flags)
	if hasUnit {
		if err := w.unit(u); err != nil {
			return err
		}
	}
	if hasRate {
		w.f64(rate.Value)
		if err := w.unit(rate.Unit); err != nil {
			return err
		}
	}
	return nil
}

// axis writes one axis block: flags, the present origin and step values
// expressed in the axis unit, then the unit itself.
func (w *writer) axis(start, step func() (unit.Quantity, error), log bool, u unit.Unit) error {
	sq, err := start()
	hasStart := err == nil
	if err != nil && !errors.Is(err, series.ErrKeyNotSet) {
		return err
	}
	tq, err := step()
	hasStep := err == nil
	if err != nil && !errors.Is(err, series.ErrKeyNotSet) {
		return err
	}
	var flags byte
	if hasStart {
		flags |= axisHasStart
	}
	if hasStep {
		flags |= axisHasStep
	}
	if log {
		flags |= axisLog
	}
	w.u8(flags)
	if hasStart {
		w.f64(sq.Value)
	}
	if hasStep {
		w.f64(tq.Value)
	}
	return w.unit(u)
}

// payload writes the raw byte length followed by the possibly compressed
// sample bytes. An empty payload skips the codec entirely.
func (w *writer) payload(data []float64, comp Compression) error {
	raw := make([]byte, 0, 8*len(data))
	for _, v := range data {
		raw = w.engine.AppendUint64(raw, math.Float64bits(v))
	}
	w.u64(uint64(len(raw)))
	if len(raw) == 0 {
		return nil
	}
	c, err := codecFor(comp)
	if err != nil {
		return err
	}
	out, err := c.compress(raw)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, out...)
	return nil
}
