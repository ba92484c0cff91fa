package spectral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-gw/series"
)

// ToLogFrequency resamples a frequency series onto a log-spaced axis by
// piecewise-linear interpolation. The target axis runs from WithFMin to
// WithFMax over WithBins geometrically spaced samples; the bounds default
// to the source span, skipping a non-positive origin, and the count to the
// source length.
func ToLogFrequency(s *series.Series, opts ...Option) (*series.Series, error) {
	if s.Len() < 2 {
		return nil, fmt.Errorf("%w: %d samples cannot anchor an interpolant", ErrValue, s.Len())
	}
	idx, err := s.XIndex()
	if err != nil {
		return nil, fmt.Errorf("spectral: source axis: %w", err)
	}
	targets, r, err := logTargets(idx.Data(), newConfig(opts))
	if err != nil {
		return nil, err
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(idx.Data(), s.Data()); err != nil {
		return nil, fmt.Errorf("spectral: fit source axis: %w", err)
	}
	out := make([]float64, len(targets))
	for i, f := range targets {
		out[i] = pl.Predict(f)
	}

	fmin := targets[0]
	sopts := []series.Option{
		series.WithXUnit(s.XUnit()),
		series.WithX0(fmin),
		series.WithDX(fmin * (r - 1)),
		series.WithLogX(true),
	}
	if u, ok := s.Meta().UnitOK(); ok {
		sopts = append(sopts, series.WithUnit(u))
	}
	sopts = append(sopts, identityOptions(&s.Array)...)
	return series.New(out, sopts...)
}

// ToLogFrequencyGrid resamples every time row of a spectrogram onto a
// log-spaced frequency axis. Options and defaults match ToLogFrequency.
func ToLogFrequencyGrid(g *series.Grid, opts ...Option) (*series.Grid, error) {
	if g.NY() < 2 {
		return nil, fmt.Errorf("%w: %d frequency bins cannot anchor an interpolant", ErrValue, g.NY())
	}
	idx, err := g.YIndex()
	if err != nil {
		return nil, fmt.Errorf("spectral: source axis: %w", err)
	}
	targets, r, err := logTargets(idx.Data(), newConfig(opts))
	if err != nil {
		return nil, err
	}

	nx, ny := g.NX(), g.NY()
	nt := len(targets)
	data := g.Data()
	out := make([]float64, nx*nt)
	var pl interp.PiecewiseLinear
	for i := 0; i < nx; i++ {
		if err := pl.Fit(idx.Data(), data[i*ny:(i+1)*ny]); err != nil {
			return nil, fmt.Errorf("spectral: fit row %d: %w", i, err)
		}
		row := out[i*nt : (i+1)*nt]
		for k, f := range targets {
			row[k] = pl.Predict(f)
		}
	}

	fmin := targets[0]
	gopts := []series.Option{
		series.WithXUnit(g.XUnit()),
		series.WithLogX(g.LogX()),
		series.WithYUnit(g.YUnit()),
		series.WithY0(fmin),
		series.WithDY(fmin * (r - 1)),
		series.WithLogY(true),
	}
	x0, errX0 := g.X0()
	if errX0 == nil {
		gopts = append(gopts, series.WithX0(x0))
	}
	dx, errDX := g.DX()
	if errDX == nil {
		gopts = append(gopts, series.WithDX(dx))
	}
	if u, ok := g.Meta().UnitOK(); ok {
		gopts = append(gopts, series.WithUnit(u))
	}
	gopts = append(gopts, identityOptions(&g.Array)...)
	ng, err := series.NewGridFlat(out, nx, nt, gopts...)
	if err != nil {
		return nil, err
	}
	if errX0 != nil {
		ng.DeleteX0()
	}
	if errDX != nil {
		ng.DeleteDX()
	}
	return ng, nil
}

// logTargets resolves the log axis against the source positions: bounds
// from the options or the positive part of the source span, then a
// geometric ladder of bins samples. The last target lands exactly on the
// upper bound.
func logTargets(pos []float64, cfg *config) ([]float64, float64, error) {
	fmin := pos[0]
	if fmin <= 0 {
		fmin = 0
		for _, p := range pos {
			if p > 0 {
				fmin = p
				break
			}
		}
	}
	if cfg.fmin != nil {
		fmin = *cfg.fmin
	}
	if fmin <= 0 {
		return nil, 0, fmt.Errorf("%w: log axis start %g", ErrValue, fmin)
	}
	fmax := pos[len(pos)-1]
	if cfg.fmax != nil {
		fmax = *cfg.fmax
	}
	if fmax <= fmin {
		return nil, 0, fmt.Errorf("%w: empty target range [%g, %g]", ErrValue, fmin, fmax)
	}
	bins := len(pos)
	if cfg.bins != nil {
		bins = *cfg.bins
	}
	if bins < 2 {
		return nil, 0, fmt.Errorf("%w: %d log bins", ErrValue, bins)
	}

	r := math.Pow(fmax/fmin, 1/float64(bins-1))
	targets := make([]float64, bins)
	for i := range targets {
		targets[i] = fmin * math.Pow(r, float64(i))
	}
	targets[bins-1] = fmax
	return targets, r, nil
}
