package gps

import (
	"fmt"
	"math"
	"time"
)

// epochUnix is the Unix timestamp of the GPS epoch, 1980-01-06T00:00:00 UTC.
const epochUnix int64 = 315964800

// SecondsPerWeek is the length of a GPS week.
const SecondsPerWeek = 604800

// Time is an instant on the GPS scale, in seconds since the GPS epoch.
// Fractional seconds are carried in the float mantissa, which holds
// sub-microsecond precision for any date this century.
type Time float64

// leap records a UTC instant at which a leap second took effect and the
// GPS-UTC offset from that instant on.
type leap struct {
	unix   int64
	offset int64
}

// Announced leap seconds since the GPS epoch. The table ends at the most
// recent announcement; none is scheduled as of 2026.
var leaps = [...]leap{
	{362793600, 1},   // 1981-07-01
	{394329600, 2},   // 1982-07-01
	{425865600, 3},   // 1983-07-01
	{489024000, 4},   // 1985-07-01
	{567993600, 5},   // 1988-01-01
	{631152000, 6},   // 1990-01-01
	{662688000, 7},   // 1991-01-01
	{709948800, 8},   // 1992-07-01
	{741484800, 9},   // 1993-07-01
	{773020800, 10},  // 1994-07-01
	{820454400, 11},  // 1996-01-01
	{867715200, 12},  // 1997-07-01
	{915148800, 13},  // 1999-01-01
	{1136073600, 14}, // 2006-01-01
	{1230768000, 15}, // 2009-01-01
	{1341100800, 16}, // 2012-07-01
	{1435708800, 17}, // 2015-07-01
	{1483228800, 18}, // 2017-01-01
}

func offsetAtUnix(u int64) int64 {
	var off int64
	for _, l := range leaps {
		if u < l.unix {
			break
		}
		off = l.offset
	}
	return off
}

func offsetAtGPS(g float64) int64 {
	var off int64
	for _, l := range leaps {
		// GPS instant at which the new offset becomes active.
		active := float64(l.unix-epochUnix) + float64(l.offset)
		if g < active {
			break
		}
		off = l.offset
	}
	return off
}

// FromUTC converts a wall-clock instant to GPS time.
func FromUTC(t time.Time) Time {
	u := t.Unix()
	frac := float64(t.Nanosecond()) / 1e9
	return Time(float64(u-epochUnix+offsetAtUnix(u)) + frac)
}

// Now returns the current instant on the GPS scale.
func Now() Time {
	return FromUTC(time.Now())
}

// UTC converts t back to a wall-clock instant. An instant falling inside an
// inserted leap second maps onto the following UTC second, which time.Time
// cannot otherwise represent.
func (t Time) UTC() time.Time {
	g := float64(t)
	sec, frac := math.Modf(g)
	u := epochUnix + int64(sec) - offsetAtGPS(g)
	return time.Unix(u, int64(math.Round(frac*1e9))).UTC()
}

// Seconds returns t as a bare float64.
func (t Time) Seconds() float64 { return float64(t) }

// Add returns t shifted by d seconds.
func (t Time) Add(d float64) Time { return t + Time(d) }

// GPSWeek returns the week number since the GPS epoch.
func (t Time) GPSWeek() int {
	return int(math.Floor(float64(t) / SecondsPerWeek))
}

// String renders the GPS second count, keeping fractional digits only when
// present.
func (t Time) String() string {
	if t == Time(math.Trunc(float64(t))) {
		return fmt.Sprintf("%.0f", float64(t))
	}
	return fmt.Sprintf("%g", float64(t))
}
