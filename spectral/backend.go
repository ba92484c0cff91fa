package spectral

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// defaultSegment is the analysis segment length used when none is
// configured. Inputs shorter than it fall back to a single segment.
const defaultSegment = 256

// Method selects how the periodograms of individual segments are combined
// into one estimate.
type Method int

const (
	// MethodWelch averages overlapping segment periodograms.
	MethodWelch Method = iota
	// MethodBartlett averages non-overlapping segment periodograms.
	MethodBartlett
	// MethodMedian takes the bias-corrected per-bin median, which is
	// robust against loud transients in single segments.
	MethodMedian
	// MethodMedianMean averages the bias-corrected medians of the
	// even-numbered and odd-numbered segments.
	MethodMedianMean
)

// String returns the conventional lowercase name of the method.
func (m Method) String() string {
	switch m {
	case MethodWelch:
		return "welch"
	case MethodBartlett:
		return "bartlett"
	case MethodMedian:
		return "median"
	case MethodMedianMean:
		return "median-mean"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Plan fixes every parameter of a density estimate: the averaging method,
// the segment partition and the transform applied per segment.
type Plan struct {
	// Method combines the segment periodograms.
	Method Method
	// Segment is the length of each analysis segment in samples.
	Segment int
	// Overlap is the number of samples shared by consecutive segments.
	Overlap int
	// NFFT is the transform length; segments shorter than it are
	// zero padded.
	NFFT int
	// Window tapers each segment before the transform.
	Window window.Type
}

func (p Plan) validate(n int) error {
	if p.Segment < 1 {
		return fmt.Errorf("%w: segment length %d", ErrValue, p.Segment)
	}
	if p.Segment > n {
		return fmt.Errorf("%w: segment length %d exceeds %d samples", ErrValue, p.Segment, n)
	}
	if p.Overlap < 0 || p.Overlap >= p.Segment {
		return fmt.Errorf("%w: overlap %d outside [0, %d)", ErrValue, p.Overlap, p.Segment)
	}
	if p.NFFT < p.Segment {
		return fmt.Errorf("%w: transform length %d shorter than segment %d", ErrValue, p.NFFT, p.Segment)
	}
	return nil
}

// segments returns how many complete segments the plan extracts from n
// samples.
func (p Plan) segments(n int) int {
	if n < p.Segment {
		return 0
	}
	return (n-p.Segment)/(p.Segment-p.Overlap) + 1
}

// bins returns the number of one-sided frequency bins the plan produces.
func (p Plan) bins() int {
	return p.NFFT/2 + 1
}

// A Backend turns raw samples into a one-sided power spectral density.
// Estimate returns Plan.bins() values spanning DC to the Nyquist
// frequency, scaled to density, so that summing the result times the bin
// width recovers the mean square of the input.
type Backend interface {
	// Name identifies the backend in error messages.
	Name() string
	// Supports reports whether the backend implements the method.
	Supports(Method) bool
	// Estimate computes the density of samples taken at sampleRate.
	Estimate(samples []float64, sampleRate float64, p Plan) ([]float64, error)
}

// defaultBackends is the resolution order when no backend is forced.
var defaultBackends = []Backend{Native(), GoDSP()}

// estimate routes the plan to an explicit backend, or walks the default
// chain until one supports the method.
func estimate(b Backend, samples []float64, sampleRate float64, p Plan) ([]float64, error) {
	if b != nil {
		if !b.Supports(p.Method) {
			return nil, fmt.Errorf("%w: %s does not implement the %s method, use %s",
				ErrBackendUnavailable, b.Name(), p.Method, Native().Name())
		}
		return b.Estimate(samples, sampleRate, p)
	}
	for _, cand := range defaultBackends {
		if cand.Supports(p.Method) {
			return cand.Estimate(samples, sampleRate, p)
		}
	}
	return nil, fmt.Errorf("%w: no backend implements the %s method", ErrBackendUnavailable, p.Method)
}

// nextPow2 returns the smallest power of two that is at least n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// combine reduces the per-segment periodograms according to the method.
func combine(grams [][]float64, method Method) ([]float64, error) {
	if len(grams) == 0 {
		return nil, fmt.Errorf("%w: no complete segments", ErrValue)
	}
	switch method {
	case MethodWelch, MethodBartlett:
		return meanCombine(grams), nil
	case MethodMedian:
		return medianCombine(grams), nil
	case MethodMedianMean:
		if len(grams) == 1 {
			return medianCombine(grams), nil
		}
		even := make([][]float64, 0, (len(grams)+1)/2)
		odd := make([][]float64, 0, len(grams)/2)
		for i, pg := range grams {
			if i%2 == 0 {
				even = append(even, pg)
			} else {
				odd = append(odd, pg)
			}
		}
		a := medianCombine(even)
		b := medianCombine(odd)
		out := make([]float64, len(a))
		for k := range out {
			out[k] = (a[k] + b[k]) / 2
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown method %s", ErrValue, method)
	}
}

func meanCombine(grams [][]float64) []float64 {
	sum := make([]float64, len(grams[0]))
	for _, pg := range grams {
		vecmath.AddBlockInPlace(sum, pg)
	}
	out := make([]float64, len(sum))
	vecmath.ScaleBlock(out, sum, 1/float64(len(grams)))
	return out
}

// medianCombine takes the per-bin median across periodograms, corrected by
// the expected bias of a median of exponentially distributed estimates.
func medianCombine(grams [][]float64) []float64 {
	out := make([]float64, len(grams[0]))
	col := make([]float64, len(grams))
	bias := medianBias(len(grams))
	for k := range out {
		for i, pg := range grams {
			col[i] = pg[k]
		}
		sort.Float64s(col)
		mid := len(col) / 2
		med := col[mid]
		if len(col)%2 == 0 {
			med = (col[mid-1] + col[mid]) / 2
		}
		out[k] = med / bias
	}
	return out
}

// medianBias returns the expected ratio of the median to the mean of n
// independent exponentially distributed power estimates: the alternating
// harmonic partial sum, which approaches ln 2 for large n. Even counts use
// the sum for n-1 terms.
func medianBias(n int) float64 {
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		n--
	}
	bias := 0.0
	sign := 1.0
	for i := 1; i <= n; i++ {
		bias += sign / float64(i)
		sign = -sign
	}
	return bias
}
