package detector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/cwbudde/algo-gw/unit"
)

// ErrInvalidName reports a channel name that cannot be accepted.
var ErrInvalidName = errors.New("detector: invalid channel name")

// Channel identifies a single recorded data stream. The zero value is not
// usable; construct through NewChannel or Parse. Channels are immutable
// after construction.
type Channel struct {
	name      string
	ifo       string
	system    string
	subsystem string
	signal    string

	unit    unit.Unit
	hasUnit bool
	rate    unit.Quantity
	hasRate bool
}

// Option configures a Channel under construction.
type Option func(*Channel)

// WithUnit records the physical unit of the recorded stream.
func WithUnit(u unit.Unit) Option {
	return func(c *Channel) {
		c.unit = u
		c.hasUnit = true
	}
}

// WithSampleRate records the acquisition rate in hertz.
func WithSampleRate(hz float64) Option {
	return func(c *Channel) {
		c.rate = unit.NewQuantity(hz, unit.Hertz())
		c.hasRate = true
	}
}

// WithSampleRateQuantity records the acquisition rate as a quantity. The
// value is stored as given; callers normally pass hertz.
func WithSampleRateQuantity(q unit.Quantity) Option {
	return func(c *Channel) {
		c.rate = q
		c.hasRate = true
	}
}

// NewChannel builds a channel from its canonical name. Names following the
// IFO:SYSTEM-SUBSYSTEM_SIGNAL convention are decomposed into their parts;
// any other non-empty name is kept whole. An empty or blank name fails with
// ErrInvalidName.
func NewChannel(name string, opts ...Option) (*Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	c := &Channel{name: name}
	c.ifo, c.system, c.subsystem, c.signal = splitName(name)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Parse is NewChannel without options, matching the common construction
// from a bare name string.
func Parse(name string) (*Channel, error) {
	return NewChannel(name)
}

// MustParse is Parse for statically known names; it panics on error.
func MustParse(name string) *Channel {
	c, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return c
}

// splitName decomposes IFO:SYSTEM-SUBSYSTEM_SIGNAL. Missing separators
// leave the remaining parts empty rather than failing, since archival data
// carries many free-form names.
func splitName(name string) (ifo, system, subsystem, signal string) {
	rest := name
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		ifo = rest[:i]
		rest = rest[i+1:]
	} else {
		return "", "", "", ""
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		system = rest[:i]
		rest = rest[i+1:]
	} else {
		system = rest
		return ifo, system, "", ""
	}
	if i := strings.IndexByte(rest, '_'); i >= 0 {
		subsystem = rest[:i]
		signal = rest[i+1:]
	} else {
		subsystem = rest
	}
	return ifo, system, subsystem, signal
}

// Name returns the canonical channel name.
func (c *Channel) Name() string { return c.name }

// IFO returns the interferometer prefix, if the name carries one.
func (c *Channel) IFO() string { return c.ifo }

// System returns the system part of the name.
func (c *Channel) System() string { return c.system }

// Subsystem returns the subsystem part of the name.
func (c *Channel) Subsystem() string { return c.subsystem }

// Signal returns the signal part of the name.
func (c *Channel) Signal() string { return c.signal }

// Unit returns the recorded stream's unit and whether one was set.
func (c *Channel) Unit() (unit.Unit, bool) { return c.unit, c.hasUnit }

// SampleRate returns the acquisition rate and whether one was set.
func (c *Channel) SampleRate() (unit.Quantity, bool) { return c.rate, c.hasRate }

// SampleStep returns the sampling interval 1/rate in seconds. It fails when
// no sample rate is set or the rate is not positive.
func (c *Channel) SampleStep() (unit.Quantity, error) {
	if !c.hasRate {
		return unit.Quantity{}, fmt.Errorf("%w: channel %q has no sample rate",
			ErrInvalidName, c.name)
	}
	hz, err := c.rate.To(unit.Hertz())
	if err != nil {
		return unit.Quantity{}, err
	}
	if hz.Value <= 0 {
		return unit.Quantity{}, fmt.Errorf("%w: channel %q sample rate %v is not positive",
			ErrInvalidName, c.name, c.rate)
	}
	return unit.NewQuantity(1/hz.Value, unit.Second()), nil
}

// ID returns a stable 64-bit identifier derived from the canonical name.
func (c *Channel) ID() uint64 {
	return xxhash.Sum64String(c.name)
}

// Copy returns an independent copy of c.
func (c *Channel) Copy() *Channel {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// Equal reports whether two channels carry the same name, unit presence and
// value, and sample rate.
func (c *Channel) Equal(o *Channel) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.name != o.name || c.hasUnit != o.hasUnit || c.hasRate != o.hasRate {
		return false
	}
	if c.hasUnit && !c.unit.Equal(o.unit) {
		return false
	}
	if c.hasRate && !c.rate.Equal(o.rate) {
		return false
	}
	return true
}

// String returns the canonical name.
func (c *Channel) String() string { return c.name }
