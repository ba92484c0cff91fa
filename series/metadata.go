package series

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-gw/detector"
	"github.com/cwbudde/algo-gw/gps"
	"github.com/cwbudde/algo-gw/unit"
)

// Recognized metadata keys. Any other key passes through Set and Get
// unmodified as an extra.
const (
	KeyName    = "name"
	KeyUnit    = "unit"
	KeyEpoch   = "epoch"
	KeyChannel = "channel"
)

// Metadata is the attribute container attached to every annotated array.
// The recognized keys carry typed values with explicit presence; unknown
// keys are stored opaquely as strings, integers, floats or booleans.
//
// The zero value is an empty container ready for use.
type Metadata struct {
	name     string
	hasName  bool
	unit     unit.Unit
	hasUnit  bool
	epoch    gps.Time
	hasEpoch bool
	channel  *detector.Channel
	extra    map[string]any
}

// Name returns the name and whether one is set.
func (m *Metadata) Name() (string, bool) { return m.name, m.hasName }

// SetName records the name.
func (m *Metadata) SetName(name string) {
	m.name = name
	m.hasName = true
}

// ClearName removes the name.
func (m *Metadata) ClearName() {
	m.name = ""
	m.hasName = false
}

// Unit returns the unit, lazily initializing an unset unit to dimensionless.
// The initialization is recorded, so a later UnitOK reports presence.
func (m *Metadata) Unit() unit.Unit {
	if !m.hasUnit {
		m.unit = unit.Dimensionless()
		m.hasUnit = true
	}
	return m.unit
}

// UnitOK returns the unit and whether one is set, without the lazy default.
func (m *Metadata) UnitOK() (unit.Unit, bool) { return m.unit, m.hasUnit }

// SetUnit records the unit.
func (m *Metadata) SetUnit(u unit.Unit) {
	m.unit = u
	m.hasUnit = true
}

// ClearUnit removes the unit.
func (m *Metadata) ClearUnit() {
	m.unit = unit.Unit{}
	m.hasUnit = false
}

// Epoch returns the epoch and whether one is set.
func (m *Metadata) Epoch() (gps.Time, bool) { return m.epoch, m.hasEpoch }

// SetEpoch coerces v through gps.ParseEpoch and records the result.
func (m *Metadata) SetEpoch(v any) error {
	if v == nil {
		m.ClearEpoch()
		return nil
	}
	t, err := gps.ParseEpoch(v)
	if err != nil {
		return err
	}
	m.epoch = t
	m.hasEpoch = true
	return nil
}

// ClearEpoch removes the epoch.
func (m *Metadata) ClearEpoch() {
	m.epoch = 0
	m.hasEpoch = false
}

// Channel returns the channel and whether one is set.
func (m *Metadata) Channel() (*detector.Channel, bool) {
	return m.channel, m.channel != nil
}

// SetChannel records the channel.
func (m *Metadata) SetChannel(c *detector.Channel) { m.channel = c }

// ClearChannel removes the channel.
func (m *Metadata) ClearChannel() { m.channel = nil }

// Get returns the stored value for key. Recognized keys return their typed
// value; Get never triggers the lazy unit default.
func (m *Metadata) Get(key string) (any, bool) {
	switch key {
	case KeyName:
		if !m.hasName {
			return nil, false
		}
		return m.name, true
	case KeyUnit:
		if !m.hasUnit {
			return nil, false
		}
		return m.unit, true
	case KeyEpoch:
		if !m.hasEpoch {
			return nil, false
		}
		return m.epoch, true
	case KeyChannel:
		if m.channel == nil {
			return nil, false
		}
		return m.channel, true
	default:
		v, ok := m.extra[key]
		return v, ok
	}
}

// Set stores a value under key, coercing recognized keys to their semantic
// type: units parse from strings and scale from numbers, epochs convert
// through gps.ParseEpoch, channels accept descriptors or names. A nil value
// clears the key.
func (m *Metadata) Set(key string, v any) error {
	switch key {
	case KeyName:
		if v == nil {
			m.ClearName()
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: name must be a string, got %T", ErrValue, v)
		}
		m.SetName(s)
		return nil
	case KeyUnit:
		return m.setUnitValue(v)
	case KeyEpoch:
		return m.SetEpoch(v)
	case KeyChannel:
		return m.setChannelValue(v)
	default:
		if v == nil {
			delete(m.extra, key)
			return nil
		}
		cv, err := coerceExtra(v)
		if err != nil {
			return fmt.Errorf("%w for key %q", err, key)
		}
		if m.extra == nil {
			m.extra = make(map[string]any)
		}
		m.extra[key] = cv
		return nil
	}
}

func (m *Metadata) setUnitValue(v any) error {
	switch x := v.(type) {
	case nil:
		m.ClearUnit()
		return nil
	case unit.Unit:
		m.SetUnit(x)
		return nil
	case string:
		u, err := unit.Parse(x)
		if err != nil {
			return err
		}
		m.SetUnit(u)
		return nil
	case float64:
		m.SetUnit(unit.New(x, nil))
		return nil
	case int:
		m.SetUnit(unit.New(float64(x), nil))
		return nil
	default:
		return fmt.Errorf("%w: cannot use %T as a unit", ErrValue, v)
	}
}

func (m *Metadata) setChannelValue(v any) error {
	switch x := v.(type) {
	case nil:
		m.ClearChannel()
		return nil
	case *detector.Channel:
		m.SetChannel(x)
		return nil
	case detector.Channel:
		c := x
		m.SetChannel(&c)
		return nil
	case string:
		c, err := detector.Parse(x)
		if err != nil {
			return err
		}
		m.SetChannel(c)
		return nil
	default:
		return fmt.Errorf("%w: cannot use %T as a channel", ErrValue, v)
	}
}

// Delete removes key from the container.
func (m *Metadata) Delete(key string) {
	switch key {
	case KeyName:
		m.ClearName()
	case KeyUnit:
		m.ClearUnit()
	case KeyEpoch:
		m.ClearEpoch()
	case KeyChannel:
		m.ClearChannel()
	default:
		delete(m.extra, key)
	}
}

// Keys lists every set key in sorted order.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, 4+len(m.extra))
	if m.hasName {
		keys = append(keys, KeyName)
	}
	if m.hasUnit {
		keys = append(keys, KeyUnit)
	}
	if m.hasEpoch {
		keys = append(keys, KeyEpoch)
	}
	if m.channel != nil {
		keys = append(keys, KeyChannel)
	}
	for k := range m.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extras returns a copy of the opaque extension entries.
func (m *Metadata) Extras() map[string]any {
	if len(m.extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(m.extra))
	for k, v := range m.extra {
		out[k] = v
	}
	return out
}

// Copy returns an independent deep copy of the container.
func (m *Metadata) Copy() Metadata {
	out := *m
	out.channel = m.channel.Copy()
	out.extra = nil
	if len(m.extra) > 0 {
		out.extra = make(map[string]any, len(m.extra))
		for k, v := range m.extra {
			out.extra[k] = v
		}
	}
	return out
}

// Equal reports structural equality: same keys present with equal values.
func (m *Metadata) Equal(o *Metadata) bool {
	if m.hasName != o.hasName || (m.hasName && m.name != o.name) {
		return false
	}
	if m.hasUnit != o.hasUnit || (m.hasUnit && !m.unit.Equal(o.unit)) {
		return false
	}
	if m.hasEpoch != o.hasEpoch || (m.hasEpoch && m.epoch != o.epoch) {
		return false
	}
	if !m.channel.Equal(o.channel) {
		return false
	}
	if len(m.extra) != len(o.extra) {
		return false
	}
	for k, v := range m.extra {
		if ov, ok := o.extra[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// coerceExtra narrows extension values to the closed set the container
// stores: string, int64, float64, bool.
func coerceExtra(v any) (any, error) {
	switch x := v.(type) {
	case string, int64, float64, bool:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case float32:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported metadata value type %T", ErrValue, v)
	}
}
