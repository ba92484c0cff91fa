package series

import (
	"github.com/cwbudde/algo-gw/detector"
	"github.com/cwbudde/algo-gw/unit"
)

// Option configures construction of an Array, Series or Grid. Axis options
// apply only to the types that carry the axis; an Array constructor ignores
// them.
type Option func(*config)

type config struct {
	forceCopy bool

	name     *string
	unit     *unit.Unit
	unitExpr *string
	epoch    any
	channel  *detector.Channel
	extras   map[string]any

	x0     any
	dx     any
	logx   *bool
	xunit  *unit.Unit
	xindex []float64

	y0     any
	dy     any
	logy   *bool
	yunit  *unit.Unit
	yindex []float64
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (cfg *config) hasOptions() bool {
	return cfg.forceCopy || cfg.name != nil || cfg.unit != nil ||
		cfg.unitExpr != nil || cfg.epoch != nil ||
		cfg.channel != nil || len(cfg.extras) > 0 ||
		cfg.x0 != nil || cfg.dx != nil || cfg.logx != nil || cfg.xunit != nil ||
		cfg.xindex != nil ||
		cfg.y0 != nil || cfg.dy != nil || cfg.logy != nil || cfg.yunit != nil ||
		cfg.yindex != nil
}

// applyMeta folds the metadata options into m.
func (cfg *config) applyMeta(m *Metadata) error {
	if cfg.name != nil {
		m.SetName(*cfg.name)
	}
	if cfg.unit != nil {
		m.SetUnit(*cfg.unit)
	}
	if cfg.unitExpr != nil {
		if err := m.Set(KeyUnit, *cfg.unitExpr); err != nil {
			return err
		}
	}
	if cfg.epoch != nil {
		if err := m.SetEpoch(cfg.epoch); err != nil {
			return err
		}
	}
	if cfg.channel != nil {
		m.SetChannel(cfg.channel)
	}
	for k, v := range cfg.extras {
		if err := m.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// WithCopy forces the constructor to take a private copy of the input
// buffer instead of wrapping it as a view.
func WithCopy() Option {
	return func(cfg *config) { cfg.forceCopy = true }
}

// WithName sets the name metadata.
func WithName(name string) Option {
	return func(cfg *config) { cfg.name = &name }
}

// WithUnit sets the data unit.
func WithUnit(u unit.Unit) Option {
	return func(cfg *config) { cfg.unit = &u }
}

// WithUnitString sets the data unit from its text form; construction fails
// with a unit.ErrParse-wrapped error when the text does not parse.
func WithUnitString(expr string) Option {
	return func(cfg *config) { cfg.unitExpr = &expr }
}

// WithEpoch sets the epoch from any value gps.ParseEpoch accepts.
func WithEpoch(v any) Option {
	return func(cfg *config) { cfg.epoch = v }
}

// WithChannel attaches a channel descriptor. A Series constructor without
// an explicit step derives one from the channel's sample rate.
func WithChannel(c *detector.Channel) Option {
	return func(cfg *config) { cfg.channel = c }
}

// WithExtra stores an opaque metadata entry.
func WithExtra(key string, v any) Option {
	return func(cfg *config) {
		if cfg.extras == nil {
			cfg.extras = make(map[string]any)
		}
		cfg.extras[key] = v
	}
}

// WithX0 sets the x-axis origin from a unit.Quantity or bare number.
func WithX0(v any) Option {
	return func(cfg *config) { cfg.x0 = v }
}

// WithDX sets the x-axis step from a unit.Quantity or bare number.
func WithDX(v any) Option {
	return func(cfg *config) { cfg.dx = v }
}

// WithLogX marks the x axis as logarithmically spaced.
func WithLogX(log bool) Option {
	return func(cfg *config) { cfg.logx = &log }
}

// WithXUnit declares the x-axis unit. Bare axis numbers are tagged with it
// and quantities convert into it.
func WithXUnit(u unit.Unit) Option {
	return func(cfg *config) { cfg.xunit = &u }
}

// WithXIndex supplies an explicit sample-position index for the x axis; the
// origin and step derive from its leading samples.
func WithXIndex(values []float64) Option {
	return func(cfg *config) { cfg.xindex = values }
}

// WithY0 sets the y-axis origin from a unit.Quantity or bare number.
func WithY0(v any) Option {
	return func(cfg *config) { cfg.y0 = v }
}

// WithDY sets the y-axis step from a unit.Quantity or bare number.
func WithDY(v any) Option {
	return func(cfg *config) { cfg.dy = v }
}

// WithLogY marks the y axis as logarithmically spaced.
func WithLogY(log bool) Option {
	return func(cfg *config) { cfg.logy = &log }
}

// WithYUnit declares the y-axis unit.
func WithYUnit(u unit.Unit) Option {
	return func(cfg *config) { cfg.yunit = &u }
}

// WithYIndex supplies an explicit sample-position index for the y axis.
func WithYIndex(values []float64) Option {
	return func(cfg *config) { cfg.yindex = values }
}
