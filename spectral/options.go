package spectral

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/window"
)

// Option configures a density estimate or one of the grid operations.
// Options that do not apply to an operation are ignored by it.
type Option func(*config)

type config struct {
	segment *int
	overlap *int
	window  *window.Type
	backend Backend

	fmin *float64
	fmax *float64
	bins *int

	dt *float64
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSegmentLength sets the analysis segment length in samples. Inputs
// shorter than the segment are estimated from a single truncated segment.
func WithSegmentLength(n int) Option {
	return func(cfg *config) { cfg.segment = &n }
}

// WithOverlap sets the number of samples consecutive segments share. The
// default is half the segment length; Bartlett estimates always run
// without overlap.
func WithOverlap(n int) Option {
	return func(cfg *config) { cfg.overlap = &n }
}

// WithWindow selects the taper applied to each segment. The default is a
// periodic Hann window.
func WithWindow(t window.Type) Option {
	return func(cfg *config) { cfg.window = &t }
}

// WithBackend forces a specific estimation backend instead of the default
// chain. Estimation fails if the backend does not support the requested
// method.
func WithBackend(b Backend) Option {
	return func(cfg *config) { cfg.backend = b }
}

// WithFMin sets the lower edge of a log-frequency axis in hertz.
func WithFMin(f float64) Option {
	return func(cfg *config) { cfg.fmin = &f }
}

// WithFMax sets the upper edge of a log-frequency axis in hertz.
func WithFMax(f float64) Option {
	return func(cfg *config) { cfg.fmax = &f }
}

// WithBins sets the number of samples on a log-frequency axis.
func WithBins(n int) Option {
	return func(cfg *config) { cfg.bins = &n }
}

// WithTimeStep sets the spacing in seconds between spectra stacked into a
// spectrogram, overriding the spacing inferred from their epochs.
func WithTimeStep(dt float64) Option {
	return func(cfg *config) { cfg.dt = &dt }
}

// plan resolves the estimation options against n input samples.
func (cfg *config) plan(method Method, n int) (Plan, error) {
	if n < 1 {
		return Plan{}, fmt.Errorf("%w: no samples", ErrValue)
	}
	seg := defaultSegment
	if cfg.segment != nil {
		if *cfg.segment < 1 {
			return Plan{}, fmt.Errorf("%w: segment length %d", ErrValue, *cfg.segment)
		}
		seg = *cfg.segment
	}
	if seg > n {
		seg = n
	}
	overlap := seg / 2
	if cfg.overlap != nil {
		overlap = *cfg.overlap
	}
	if method == MethodBartlett {
		overlap = 0
	}
	wt := window.TypeHann
	if cfg.window != nil {
		wt = *cfg.window
	}
	p := Plan{Method: method, Segment: seg, Overlap: overlap, NFFT: nextPow2(seg), Window: wt}
	if err := p.validate(n); err != nil {
		return Plan{}, err
	}
	return p, nil
}
