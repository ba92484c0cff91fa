package spectral

import (
	"fmt"

	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/unit"
)

// PSD estimates the one-sided power spectral density of a uniformly
// sampled time series. The result is a frequency series from DC to the
// Nyquist frequency with bin width sampleRate/NFFT and unit input^2/Hz,
// carrying the source's name, epoch and channel.
func PSD(ts *series.Series, method Method, opts ...Option) (*series.Series, error) {
	cfg := newConfig(opts)
	p, err := cfg.plan(method, ts.Len())
	if err != nil {
		return nil, err
	}
	fs, err := sampleRate(ts)
	if err != nil {
		return nil, err
	}
	pxx, err := estimate(cfg.backend, ts.Data(), fs, p)
	if err != nil {
		return nil, err
	}
	return wrapPSD(ts, pxx, fs/float64(p.NFFT))
}

// Welch estimates the density by mean-averaging overlapping segments.
func Welch(ts *series.Series, opts ...Option) (*series.Series, error) {
	return PSD(ts, MethodWelch, opts...)
}

// Bartlett estimates the density by mean-averaging disjoint segments.
func Bartlett(ts *series.Series, opts ...Option) (*series.Series, error) {
	return PSD(ts, MethodBartlett, opts...)
}

// Median estimates the density from the bias-corrected per-bin median of
// the segment periodograms.
func Median(ts *series.Series, opts ...Option) (*series.Series, error) {
	return PSD(ts, MethodMedian, opts...)
}

// MedianMean estimates the density by averaging the bias-corrected medians
// of the even-numbered and odd-numbered segments.
func MedianMean(ts *series.Series, opts ...Option) (*series.Series, error) {
	return PSD(ts, MethodMedianMean, opts...)
}

// sampleRate derives the sampling frequency in hertz from the series step.
func sampleRate(ts *series.Series) (float64, error) {
	dx, err := ts.DX()
	if err != nil {
		return 0, fmt.Errorf("spectral: series sample step: %w", err)
	}
	dt, err := dx.To(unit.Second())
	if err != nil {
		return 0, fmt.Errorf("spectral: series is not sampled in time: %w", err)
	}
	if dt.Value <= 0 {
		return 0, fmt.Errorf("%w: sample step %v", ErrValue, dx)
	}
	return 1 / dt.Value, nil
}

// wrapPSD dresses raw density bins as a frequency series carrying the
// source's identity.
func wrapPSD(ts *series.Series, pxx []float64, df float64) (*series.Series, error) {
	opts := []series.Option{
		series.WithXUnit(unit.Hertz()),
		series.WithX0(0.0),
		series.WithDX(df),
		series.WithUnit(densityUnit(ts.Meta())),
	}
	opts = append(opts, identityOptions(&ts.Array)...)
	return series.New(pxx, opts...)
}

// densityUnit squares the sample unit per hertz of bandwidth.
func densityUnit(m *series.Metadata) unit.Unit {
	return unitOr(m).Pow(2).Div(unit.Hertz())
}

// unitOr reads the sample unit without materializing an unset key,
// treating absence as dimensionless.
func unitOr(m *series.Metadata) unit.Unit {
	if u, ok := m.UnitOK(); ok {
		return u
	}
	return unit.Dimensionless()
}

// identityOptions carries name, epoch and channel over to a derived
// container.
func identityOptions(x *series.Array) []series.Option {
	var opts []series.Option
	if name, ok := x.Name(); ok {
		opts = append(opts, series.WithName(name))
	}
	if epoch, ok := x.Epoch(); ok {
		opts = append(opts, series.WithEpoch(epoch))
	}
	if c, ok := x.Channel(); ok {
		opts = append(opts, series.WithChannel(c.Copy()))
	}
	return opts
}
