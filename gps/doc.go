// Package gps implements absolute time on the GPS scale used to timestamp
// detector data.
//
// GPS time counts seconds continuously since 1980-01-06T00:00:00 UTC and
// does not insert leap seconds, so it runs ahead of UTC by the accumulated
// leap count (18 s since 2017-01-01). Conversions to and from time.Time go
// through a static table of announced leap seconds.
package gps
