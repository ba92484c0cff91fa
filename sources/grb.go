package sources

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-gw/gps"
)

var (
	// ErrName reports a burst name that cannot be accepted.
	ErrName = errors.New("sources: invalid burst name")
	// ErrValue reports a burst parameter outside its physical range.
	ErrValue = errors.New("sources: invalid value")
	// ErrNoDuration reports a duration classification request for a burst
	// without a measured T90.
	ErrNoDuration = errors.New("sources: no measured duration")
)

// T90 populations of the two burst classes, log-normal in log10 seconds,
// from the two-component fit of arXiv:astro-ph/0205004.
var (
	shortPopulation = distuv.Normal{Mu: -0.11, Sigma: 0.61}
	longPopulation  = distuv.Normal{Mu: 1.54, Sigma: 0.43}
)

// GRB records one gamma-ray burst detection: which instrument saw it,
// where and when, and the measured burst parameters. The zero value is
// not usable; construct through NewGRB. Bursts are immutable after
// construction.
type GRB struct {
	name     string
	detector string

	time    gps.Time
	hasTime bool
	t1, t2  gps.Time
	hasSpan bool

	ra, dec   float64
	hasCoords bool

	errorRadius float64
	distance    float64
	t90         float64
	hasT90      bool
	fluence     float64

	url     string
	trigger string
}

// Option configures a GRB under construction.
type Option func(*GRB)

// WithDetector records the instrument that reported the burst.
func WithDetector(name string) Option {
	return func(g *GRB) { g.detector = name }
}

// WithTime records the trigger time.
func WithTime(t gps.Time) Option {
	return func(g *GRB) {
		g.time = t
		g.hasTime = true
	}
}

// WithSpan records the start and end of the burst emission interval.
func WithSpan(t1, t2 gps.Time) Option {
	return func(g *GRB) {
		g.t1, g.t2 = t1, t2
		g.hasSpan = true
	}
}

// WithCoordinates records the sky position as right ascension and
// declination, both in degrees.
func WithCoordinates(ra, dec float64) Option {
	return func(g *GRB) {
		g.ra, g.dec = ra, dec
		g.hasCoords = true
	}
}

// WithErrorRadius records the sky localisation uncertainty in degrees.
func WithErrorRadius(deg float64) Option {
	return func(g *GRB) { g.errorRadius = deg }
}

// WithDistance records the source distance in megaparsecs.
func WithDistance(mpc float64) Option {
	return func(g *GRB) { g.distance = mpc }
}

// WithT90 records the duration containing 90% of the burst fluence, in
// seconds.
func WithT90(seconds float64) Option {
	return func(g *GRB) {
		g.t90 = seconds
		g.hasT90 = true
	}
}

// WithFluence records the integrated flux in erg/cm².
func WithFluence(f float64) Option {
	return func(g *GRB) { g.fluence = f }
}

// WithURL records a catalogue page for the burst.
func WithURL(u string) Option {
	return func(g *GRB) { g.url = u }
}

// WithTriggerID records the reporting instrument's trigger identifier.
func WithTriggerID(id string) Option {
	return func(g *GRB) { g.trigger = id }
}

// NewGRB builds a burst record from its name. A leading "GRB" prefix is
// stripped, so "GRB070201" and "070201" name the same burst; a blank name
// fails with ErrName. Parameters set through options are range-checked:
// coordinates must lie on the sky, T90 must be positive, the emission
// interval must not end before it starts, and error radius, distance and
// fluence must not be negative.
func NewGRB(name string, opts ...Option) (*GRB, error) {
	name = strings.TrimSpace(name)
	if len(name) >= 3 && strings.EqualFold(name[:3], "GRB") {
		name = strings.TrimSpace(name[3:])
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrName)
	}
	g := &GRB{name: name}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GRB) validate() error {
	if g.hasCoords {
		if !(g.ra >= 0 && g.ra < 360) {
			return fmt.Errorf("%w: right ascension %g outside [0, 360)", ErrValue, g.ra)
		}
		if !(g.dec >= -90 && g.dec <= 90) {
			return fmt.Errorf("%w: declination %g outside [-90, 90]", ErrValue, g.dec)
		}
	}
	if g.hasSpan && g.t2 < g.t1 {
		return fmt.Errorf("%w: emission interval ends at %v before it starts at %v",
			ErrValue, g.t2, g.t1)
	}
	if g.hasT90 && !(g.t90 > 0) {
		return fmt.Errorf("%w: T90 %g is not positive", ErrValue, g.t90)
	}
	if g.errorRadius < 0 {
		return fmt.Errorf("%w: error radius %g is negative", ErrValue, g.errorRadius)
	}
	if g.distance < 0 {
		return fmt.Errorf("%w: distance %g is negative", ErrValue, g.distance)
	}
	if g.fluence < 0 {
		return fmt.Errorf("%w: fluence %g is negative", ErrValue, g.fluence)
	}
	return nil
}

// Name returns the bare burst name, without the "GRB" prefix.
func (g *GRB) Name() string { return g.name }

// String returns the conventional designation, "GRB" followed by the name.
func (g *GRB) String() string { return "GRB" + g.name }

// Detector returns the reporting instrument, or "" when unknown.
func (g *GRB) Detector() string { return g.detector }

// Time returns the trigger time and whether one was recorded.
func (g *GRB) Time() (gps.Time, bool) { return g.time, g.hasTime }

// Span returns the emission interval and whether one was recorded.
func (g *GRB) Span() (t1, t2 gps.Time, ok bool) { return g.t1, g.t2, g.hasSpan }

// Coordinates returns the sky position in degrees and whether one was
// recorded.
func (g *GRB) Coordinates() (ra, dec float64, ok bool) { return g.ra, g.dec, g.hasCoords }

// ErrorRadius returns the localisation uncertainty in degrees, or zero
// when not measured.
func (g *GRB) ErrorRadius() float64 { return g.errorRadius }

// Distance returns the source distance in megaparsecs, or zero when not
// measured.
func (g *GRB) Distance() float64 { return g.distance }

// T90 returns the 90% fluence duration in seconds and whether one was
// measured.
func (g *GRB) T90() (float64, bool) { return g.t90, g.hasT90 }

// Fluence returns the integrated flux in erg/cm², or zero when not
// measured.
func (g *GRB) Fluence() float64 { return g.fluence }

// URL returns the recorded catalogue page, or "".
func (g *GRB) URL() string { return g.url }

// TriggerID returns the instrument trigger identifier, or "".
func (g *GRB) TriggerID() string { return g.trigger }

// ProbShort returns the probability that the burst belongs to the short
// population, judged from its T90 against the two log-normal duration
// populations with equal priors. It fails with ErrNoDuration when no T90
// was measured.
func (g *GRB) ProbShort() (float64, error) {
	if !g.hasT90 {
		return 0, fmt.Errorf("%w: %v", ErrNoDuration, g)
	}
	l := math.Log10(g.t90)
	sp := shortPopulation.Prob(l)
	lp := longPopulation.Prob(l)
	return sp / (sp + lp), nil
}

// ProbLong returns the complement of ProbShort.
func (g *GRB) ProbLong() (float64, error) {
	p, err := g.ProbShort()
	if err != nil {
		return 0, err
	}
	return 1 - p, nil
}

// Class labels a burst duration population.
type Class int

const (
	// ClassUnknown marks a burst that neither population claims with the
	// requested confidence.
	ClassUnknown Class = iota
	// ClassShort marks a burst from the short population, the candidate
	// compact-binary-merger counterparts.
	ClassShort
	// ClassLong marks a burst from the long population, associated with
	// core-collapse events.
	ClassLong
)

// String names the class.
func (c Class) String() string {
	switch c {
	case ClassUnknown:
		return "unknown"
	case ClassShort:
		return "short"
	case ClassLong:
		return "long"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Classify labels the burst ClassShort when its short-population
// probability reaches the threshold, ClassLong when the complement does,
// and ClassUnknown otherwise. The threshold must lie in [0.5, 1] so that
// at most one class can qualify. It fails with ErrNoDuration when no T90
// was measured.
func (g *GRB) Classify(threshold float64) (Class, error) {
	if !(threshold >= 0.5 && threshold <= 1) {
		return ClassUnknown, fmt.Errorf("%w: classification threshold %g outside [0.5, 1]",
			ErrValue, threshold)
	}
	p, err := g.ProbShort()
	if err != nil {
		return ClassUnknown, err
	}
	switch {
	case p >= threshold:
		return ClassShort, nil
	case 1-p >= threshold:
		return ClassLong, nil
	}
	return ClassUnknown, nil
}
