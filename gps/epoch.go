package gps

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cwbudde/algo-gw/unit"
)

// ErrConversion reports a value that cannot be interpreted as a GPS time.
var ErrConversion = errors.New("gps: cannot convert value to GPS time")

// ParseEpoch coerces v into a GPS time. Accepted forms: Time, time.Time
// (converted through the leap table), unit.Quantity (bare value taken,
// seconds assumed), any integer or float, and decimal strings. Anything
// else fails with ErrConversion.
func ParseEpoch(v any) (Time, error) {
	switch x := v.(type) {
	case Time:
		return x, nil
	case *Time:
		if x == nil {
			return 0, fmt.Errorf("%w: nil *gps.Time", ErrConversion)
		}
		return *x, nil
	case time.Time:
		return FromUTC(x), nil
	case unit.Quantity:
		return Time(x.Value), nil
	case float64:
		return Time(x), nil
	case float32:
		return Time(x), nil
	case int:
		return Time(x), nil
	case int64:
		return Time(x), nil
	case int32:
		return Time(x), nil
	case uint:
		return Time(x), nil
	case uint64:
		return Time(x), nil
	case uint32:
		return Time(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrConversion, x)
		}
		return Time(f), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrConversion, v)
	}
}
