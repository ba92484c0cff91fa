package series

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/mjibson/go-dsp/fft"
)

// ResampleOption configures Resample.
type ResampleOption func(*resampleConfig)

type resampleConfig struct {
	windowType window.Type
	hasWindow  bool
}

// WithResampleWindow tapers the spectrum with the given window before
// truncation or zero-padding. Without it the spectrum is used as-is.
func WithResampleWindow(t window.Type) ResampleOption {
	return func(cfg *resampleConfig) {
		cfg.windowType = t
		cfg.hasWindow = true
	}
}

// Resample returns a new series resampled to the given rate, expressed in
// samples per axis unit, using Fourier-domain interpolation: the spectrum
// is truncated or zero-padded to round(N*dx*rate) samples and inverted.
// The origin is kept and the step becomes 1/rate. The receiver is never
// modified.
func (s *Series) Resample(rate float64, opts ...ResampleOption) (*Series, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: resample rate %g", ErrValue, rate)
	}
	cfg := resampleConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	step, err := s.x.stepValue()
	if err != nil {
		return nil, err
	}
	nx := len(s.data)
	num := int(math.Round(float64(nx) * step * rate))
	if num < 1 {
		return nil, fmt.Errorf("%w: resampling %d samples at rate %g leaves none", ErrValue, nx, rate)
	}

	spec := fft.FFTReal(s.data)
	if cfg.hasWindow {
		w := window.Generate(cfg.windowType, nx, window.WithPeriodic())
		// multiply with the window rotated so its center sits at DC
		half := nx / 2
		for i := range spec {
			spec[i] *= complex(w[(i+half)%nx], 0)
		}
	}

	out := resampleSpectrum(spec, num)
	inv := fft.IFFT(out)
	scale := float64(num) / float64(nx)
	data := make([]float64, num)
	for i, v := range inv {
		data[i] = real(v) * scale
	}

	res := &Series{
		Array: *newArray(data, []int{num}, s.meta.Copy()),
		x:     s.x.copy(),
	}
	res.x.invalidate()
	res.x.step = 1 / rate
	res.x.hasStep = true
	return res, nil
}

// resampleSpectrum maps an nx-point spectrum onto num bins, keeping the
// lowest frequencies from both halves and splitting or joining the
// Nyquist bin when one side has an even length.
func resampleSpectrum(spec []complex128, num int) []complex128 {
	nx := len(spec)
	out := make([]complex128, num)
	n := min(num, nx)
	nyq := n/2 + 1
	copy(out[:nyq], spec[:nyq])
	if n > 2 {
		neg := n - nyq
		copy(out[num-neg:], spec[nx-neg:])
	}
	if n%2 == 0 {
		switch {
		case num < nx:
			// fold the dropped negative Nyquist component into the kept one
			out[num-n/2] += spec[nx-n/2]
		case num > nx:
			// split the Nyquist bin across both halves
			out[n/2] *= 0.5
			out[num-n/2] = out[n/2]
		}
	}
	return out
}
