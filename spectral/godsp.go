package spectral

import (
	"fmt"

	godsp "github.com/mjibson/go-dsp/spectral"

	"github.com/cwbudde/algo-dsp/dsp/window"
)

type godspBackend struct{}

// GoDSP returns a backend that delegates to go-dsp's Pwelch. It covers the
// mean-averaged methods only; median averaging needs the native backend.
func GoDSP() Backend { return godspBackend{} }

func (godspBackend) Name() string { return "go-dsp" }

func (godspBackend) Supports(m Method) bool {
	return m == MethodWelch || m == MethodBartlett
}

func (b godspBackend) Estimate(samples []float64, sampleRate float64, p Plan) ([]float64, error) {
	if !b.Supports(p.Method) {
		return nil, fmt.Errorf("%w: %s does not implement the %s method, use %s",
			ErrBackendUnavailable, b.Name(), p.Method, Native().Name())
	}
	if err := p.validate(len(samples)); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %g", ErrValue, sampleRate)
	}

	// Pwelch windows each segment in place when the padded length equals
	// the segment length, writing into the caller's buffer. Doubling the
	// pad forces a private copy per segment, and the even bins of the
	// doubled transform coincide with the bins of the plain one.
	pad := p.NFFT
	halfBins := pad == p.Segment
	if halfBins {
		pad = 2 * p.NFFT
	}

	// Pwelch asks the window function for the padded length when tapering
	// and for the segment length when normalizing; past the segment the
	// taper meets only padding zeros.
	taper := window.Generate(p.Window, p.Segment, window.WithPeriodic())
	wnd := func(n int) []float64 {
		w := make([]float64, n)
		for i := copy(w, taper); i < n; i++ {
			w[i] = 1
		}
		return w
	}

	x := make([]float64, len(samples))
	copy(x, samples)
	pxx, _ := godsp.Pwelch(x, sampleRate, &godsp.PwelchOptions{
		NFFT:     p.Segment,
		Window:   wnd,
		Pad:      pad,
		Noverlap: p.Overlap,
	})

	nbins := p.bins()
	if halfBins {
		if len(pxx) < 2*nbins-1 {
			return nil, fmt.Errorf("%w: pwelch returned %d bins, expected %d", ErrValue, len(pxx), 2*nbins-1)
		}
		out := make([]float64, nbins)
		for k := range out {
			out[k] = pxx[2*k]
		}
		return out, nil
	}
	if len(pxx) != nbins {
		return nil, fmt.Errorf("%w: pwelch returned %d bins, expected %d", ErrValue, len(pxx), nbins)
	}
	return pxx, nil
}
