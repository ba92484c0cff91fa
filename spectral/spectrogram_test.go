package spectral

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/unit"
)

func TestSpectrogramShapeAndAxes(t *testing.T) {
	ts := noiseSeries(t, 2048, 256,
		series.WithName("noise"),
		series.WithUnit(unit.Strain()),
		series.WithEpoch(1000000000.0),
	)
	g, err := Spectrogram(ts, 512, MethodWelch, WithSegmentLength(256))
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}
	if g.NX() != 4 || g.NY() != 129 {
		t.Fatalf("shape = %dx%d, want 4x129", g.NX(), g.NY())
	}
	dx, err := g.DX()
	if err != nil || dx.Value != 2 || !dx.Unit.Equal(unit.Second()) {
		t.Fatalf("dx = %v (%v), want 2 s", dx, err)
	}
	dy, err := g.DY()
	if err != nil || dy.Value != 1 || !dy.Unit.Equal(unit.Hertz()) {
		t.Fatalf("dy = %v (%v), want 1 Hz", dy, err)
	}
	y0, err := g.Y0()
	if err != nil || y0.Value != 0 {
		t.Fatalf("y0 = %v (%v), want 0", y0, err)
	}
	if !g.Unit().Equal(unit.Strain().Pow(2).Div(unit.Hertz())) {
		t.Fatalf("unit = %v, want strain^2/Hz", g.Unit())
	}
	if name, ok := g.Name(); !ok || name != "noise" {
		t.Fatalf("name = %q, %v", name, ok)
	}
	if epoch, ok := g.Epoch(); !ok || epoch.Seconds() != 1000000000.0 {
		t.Fatalf("epoch = %v, %v", epoch, ok)
	}
}

func TestSpectrogramRowsMatchPSD(t *testing.T) {
	ts := noiseSeries(t, 2048, 256)
	g, err := Spectrogram(ts, 512, MethodWelch, WithSegmentLength(256))
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}
	for i := 0; i < g.NX(); i++ {
		sl, err := ts.Slice(i*512, (i+1)*512, 1)
		if err != nil {
			t.Fatalf("Slice: %v", err)
		}
		want, err := Welch(sl, WithSegmentLength(256))
		if err != nil {
			t.Fatalf("Welch: %v", err)
		}
		row, err := g.Row(i)
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		if !slices.Equal(row.Data(), want.Data()) {
			t.Fatalf("row %d diverges from its own estimate", i)
		}
	}
}

func TestSpectrogramDropsTrailingSamples(t *testing.T) {
	ts := noiseSeries(t, 1100, 256)
	g, err := Spectrogram(ts, 512, MethodWelch, WithSegmentLength(256))
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}
	if g.NX() != 2 {
		t.Fatalf("strides = %d, want 2", g.NX())
	}
}

func TestSpectrogramRejectsBadStride(t *testing.T) {
	ts := noiseSeries(t, 1024, 256)
	if _, err := Spectrogram(ts, 0, MethodWelch); !errors.Is(err, ErrValue) {
		t.Fatalf("zero stride err = %v, want ErrValue", err)
	}
	if _, err := Spectrogram(ts, 2048, MethodWelch); !errors.Is(err, ErrValue) {
		t.Fatalf("oversized stride err = %v, want ErrValue", err)
	}
}

func TestSpectrogramPropagatesBackendFailure(t *testing.T) {
	ts := noiseSeries(t, 1024, 256)
	_, err := Spectrogram(ts, 512, MethodMedian, WithBackend(GoDSP()))
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestFromSpectraInfersStepFromEpochs(t *testing.T) {
	ts := noiseSeries(t, 1536, 256, series.WithUnit(unit.Strain()))
	var spectra []*series.Series
	for i := 0; i < 3; i++ {
		sl, err := ts.Slice(i*512, (i+1)*512, 1)
		if err != nil {
			t.Fatalf("Slice: %v", err)
		}
		psd, err := Welch(sl, WithSegmentLength(256))
		if err != nil {
			t.Fatalf("Welch: %v", err)
		}
		if err := psd.SetEpoch(1000000000.0 + 2*float64(i)); err != nil {
			t.Fatalf("SetEpoch: %v", err)
		}
		spectra = append(spectra, psd)
	}
	g, err := FromSpectra(spectra)
	if err != nil {
		t.Fatalf("FromSpectra: %v", err)
	}
	if g.NX() != 3 || g.NY() != 129 {
		t.Fatalf("shape = %dx%d, want 3x129", g.NX(), g.NY())
	}
	x0, err := g.X0()
	if err != nil || x0.Value != 1000000000.0 || !x0.Unit.Equal(unit.Second()) {
		t.Fatalf("x0 = %v (%v), want 1000000000 s", x0, err)
	}
	dx, err := g.DX()
	if err != nil || dx.Value != 2 {
		t.Fatalf("dx = %v (%v), want 2 s", dx, err)
	}
	dy, err := g.DY()
	if err != nil || dy.Value != 1 {
		t.Fatalf("dy = %v (%v), want 1 Hz", dy, err)
	}
	if !g.Unit().Equal(unit.Strain().Pow(2).Div(unit.Hertz())) {
		t.Fatalf("unit = %v", g.Unit())
	}
	for i, sp := range spectra {
		row, err := g.Row(i)
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		if !slices.Equal(row.Data(), sp.Data()) {
			t.Fatalf("row %d diverges from its spectrum", i)
		}
	}
}

func TestFromSpectraExplicitStep(t *testing.T) {
	ts := noiseSeries(t, 512, 256)
	psd, err := Welch(ts, WithSegmentLength(256))
	if err != nil {
		t.Fatalf("Welch: %v", err)
	}
	if _, err := FromSpectra([]*series.Series{psd}); !errors.Is(err, ErrValue) {
		t.Fatalf("single spectrum err = %v, want ErrValue", err)
	}
	g, err := FromSpectra([]*series.Series{psd}, WithTimeStep(4))
	if err != nil {
		t.Fatalf("FromSpectra: %v", err)
	}
	if dx, err := g.DX(); err != nil || dx.Value != 4 {
		t.Fatalf("dx = %v (%v), want 4 s", dx, err)
	}
}

func TestFromSpectraIncompatibilities(t *testing.T) {
	freqSeries := func(n int, f0, df float64, log bool) *series.Series {
		s, err := series.New(make([]float64, n),
			series.WithXUnit(unit.Hertz()),
			series.WithX0(f0),
			series.WithDX(df),
			series.WithLogX(log),
		)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return s
	}
	ref := freqSeries(8, 0, 1, false)
	cases := []struct {
		name string
		next *series.Series
		want error
		frag string
	}{
		{"length", freqSeries(9, 0, 1, false), series.ErrIncompatible, "bins"},
		{"origin", freqSeries(8, 1, 1, false), series.ErrIncompatible, "f0"},
		{"step", freqSeries(8, 0, 2, false), series.ErrIncompatible, "df"},
		{"scaling", freqSeries(8, 0, 1, true), series.ErrIncompatible, "log"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromSpectra([]*series.Series{ref, tc.next}, WithTimeStep(1))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !strings.Contains(err.Error(), tc.frag) {
				t.Fatalf("error %q does not name %q", err, tc.frag)
			}
		})
	}

	t.Run("no epochs", func(t *testing.T) {
		_, err := FromSpectra([]*series.Series{ref, freqSeries(8, 0, 1, false)})
		if !errors.Is(err, ErrValue) {
			t.Fatalf("err = %v, want ErrValue", err)
		}
	})
	t.Run("empty", func(t *testing.T) {
		if _, err := FromSpectra(nil); !errors.Is(err, ErrValue) {
			t.Fatalf("err = %v, want ErrValue", err)
		}
	})
}
