package spectral

import (
	"fmt"

	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/unit"
)

// Spectrogram chops the series into disjoint strides of the given length
// in samples, estimates a density per stride and stacks the results into a
// time-by-frequency grid. Samples past the last complete stride are
// dropped.
func Spectrogram(ts *series.Series, stride int, method Method, opts ...Option) (*series.Grid, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w: stride %d", ErrValue, stride)
	}
	n := ts.Len()
	if n < stride {
		return nil, fmt.Errorf("%w: %d samples cannot fill a %d-sample stride", ErrValue, n, stride)
	}

	cfg := newConfig(opts)
	p, err := cfg.plan(method, stride)
	if err != nil {
		return nil, err
	}
	fs, err := sampleRate(ts)
	if err != nil {
		return nil, err
	}

	data := ts.Data()
	rows := make([][]float64, n/stride)
	for i := range rows {
		pxx, err := estimate(cfg.backend, data[i*stride:(i+1)*stride], fs, p)
		if err != nil {
			return nil, fmt.Errorf("spectral: stride %d: %w", i, err)
		}
		rows[i] = pxx
	}

	gopts := []series.Option{
		series.WithXUnit(ts.XUnit()),
		series.WithYUnit(unit.Hertz()),
		series.WithY0(0.0),
		series.WithDY(fs / float64(p.NFFT)),
		series.WithUnit(densityUnit(ts.Meta())),
	}
	if x0, err := ts.X0(); err == nil {
		gopts = append(gopts, series.WithX0(x0))
	}
	if dx, err := ts.DX(); err == nil {
		gopts = append(gopts, series.WithDX(dx.ScaleBy(float64(stride))))
	}
	gopts = append(gopts, identityOptions(&ts.Array)...)
	return series.NewGrid(rows, gopts...)
}

// FromSpectra stacks frequency series into a spectrogram. Every spectrum
// must share the first one's length, frequency axis and scaling. The time
// axis derives from the spectra's epochs unless WithTimeStep overrides the
// spacing.
func FromSpectra(spectra []*series.Series, opts ...Option) (*series.Grid, error) {
	if len(spectra) == 0 {
		return nil, fmt.Errorf("%w: no spectra", ErrValue)
	}
	cfg := newConfig(opts)
	first := spectra[0]
	for i, sp := range spectra[1:] {
		if err := compatibleAxes(first, sp, i+1); err != nil {
			return nil, err
		}
	}

	var dt float64
	switch {
	case cfg.dt != nil:
		dt = *cfg.dt
	case len(spectra) > 1:
		e0, ok0 := spectra[0].Epoch()
		e1, ok1 := spectra[1].Epoch()
		if !ok0 || !ok1 {
			return nil, fmt.Errorf("%w: spectra carry no epochs to infer a time step from", ErrValue)
		}
		dt = e1.Seconds() - e0.Seconds()
	default:
		return nil, fmt.Errorf("%w: a single spectrum needs an explicit time step", ErrValue)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: time step %g", ErrValue, dt)
	}

	x0 := 0.0
	if e, ok := first.Epoch(); ok {
		x0 = e.Seconds()
	}

	rows := make([][]float64, len(spectra))
	for i, sp := range spectra {
		rows[i] = sp.Data()
	}

	gopts := []series.Option{
		series.WithXUnit(unit.Second()),
		series.WithX0(x0),
		series.WithDX(dt),
		series.WithYUnit(first.XUnit()),
		series.WithLogY(first.LogX()),
	}
	if y0, err := first.X0(); err == nil {
		gopts = append(gopts, series.WithY0(y0))
	}
	if dy, err := first.DX(); err == nil {
		gopts = append(gopts, series.WithDY(dy))
	}
	if u, ok := first.Meta().UnitOK(); ok {
		gopts = append(gopts, series.WithUnit(u))
	}
	gopts = append(gopts, identityOptions(&first.Array)...)
	return series.NewGrid(rows, gopts...)
}

// compatibleAxes reports whether spectrum sp can stack onto the layer
// layout of ref.
func compatibleAxes(ref, sp *series.Series, i int) error {
	if sp.Len() != ref.Len() {
		return fmt.Errorf("%w: spectrum %d has %d bins, want %d",
			series.ErrIncompatible, i, sp.Len(), ref.Len())
	}
	if err := compatibleQuantity(ref.X0, sp.X0, "f0", i); err != nil {
		return err
	}
	if err := compatibleQuantity(ref.DX, sp.DX, "df", i); err != nil {
		return err
	}
	if sp.LogX() != ref.LogX() {
		return fmt.Errorf("%w: spectrum %d differs in log scaling", series.ErrIncompatible, i)
	}
	return nil
}

func compatibleQuantity(ref, got func() (unit.Quantity, error), what string, i int) error {
	rq, rerr := ref()
	gq, gerr := got()
	if (rerr == nil) != (gerr == nil) {
		return fmt.Errorf("%w: spectrum %d differs in %s presence", series.ErrIncompatible, i, what)
	}
	if rerr == nil && !rq.Equal(gq) {
		return fmt.Errorf("%w: spectrum %d has %s %v, want %v",
			series.ErrIncompatible, i, what, gq, rq)
	}
	return nil
}
