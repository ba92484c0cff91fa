package spectral

import (
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dsp/dsp/window"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

type nativeBackend struct{}

// Native returns the built-in backend. It transforms segments with
// algo-fft and supports every Method.
func Native() Backend { return nativeBackend{} }

func (nativeBackend) Name() string { return "native" }

func (nativeBackend) Supports(Method) bool { return true }

func (nativeBackend) Estimate(samples []float64, sampleRate float64, p Plan) ([]float64, error) {
	if err := p.validate(len(samples)); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %g", ErrValue, sampleRate)
	}

	taper := window.Generate(p.Window, p.Segment, window.WithPeriodic())
	var wss float64
	for _, v := range taper {
		wss += v * v
	}
	if wss == 0 {
		return nil, fmt.Errorf("%w: window power is zero", ErrValue)
	}

	plan, err := algofft.NewPlan64(p.NFFT)
	if err != nil {
		return nil, fmt.Errorf("spectral: plan %d-point transform: %w", p.NFFT, err)
	}

	nbins := p.bins()
	in := make([]complex128, p.NFFT)
	out := make([]complex128, p.NFFT)
	raw := make([]float64, nbins)
	re, im, buf := getScratch(nbins)
	defer putScratch(buf)

	// One-sided density scaling; interior bins are doubled below to
	// fold in the mirrored negative frequencies.
	scale := 2 / (sampleRate * wss)
	stride := p.Segment - p.Overlap
	grams := make([][]float64, 0, p.segments(len(samples)))
	for s := 0; s+p.Segment <= len(samples); s += stride {
		seg := samples[s : s+p.Segment]
		for i := range in {
			if i < p.Segment {
				in[i] = complex(seg[i]*taper[i], 0)
			} else {
				in[i] = 0
			}
		}
		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectral: forward transform: %w", err)
		}
		for k := 0; k < nbins; k++ {
			re[k] = real(out[k])
			im[k] = imag(out[k])
		}
		vecmath.Power(raw, re, im)
		pg := make([]float64, nbins)
		vecmath.ScaleBlock(pg, raw, scale)
		pg[0] /= 2
		if p.NFFT%2 == 0 {
			pg[nbins-1] /= 2
		}
		grams = append(grams, pg)
	}
	return combine(grams, p.Method)
}
