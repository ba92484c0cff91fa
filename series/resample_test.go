package series

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/cwbudde/algo-gw/internal/testutil"
	"github.com/cwbudde/algo-gw/unit"
)

func toneSeries(t *testing.T, freq, rate float64, n int) *Series {
	t.Helper()
	s, err := New(testutil.DeterministicSine(freq, rate, 1, n),
		WithName("tone"), WithUnit(unit.Strain()),
		WithEpoch(1187008882.0), WithDX(1/rate))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestResampleHalvingKeepsTone(t *testing.T) {
	// 64 Hz sits on a bin for both lengths, so Fourier interpolation is
	// exact up to roundoff.
	s := toneSeries(t, 64, 4096, 1024)

	down, err := s.Resample(2048)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if down.Len() != 512 {
		t.Fatalf("len = %d, want 512", down.Len())
	}
	want := testutil.DeterministicSine(64, 2048, 1, 512)
	testutil.RequireSliceNearlyEqual(t, down.Data(), want, 1e-9)

	dx, err := down.DX()
	if err != nil {
		t.Fatalf("DX: %v", err)
	}
	if math.Abs(dx.Value-1.0/2048) > 1e-15 || !dx.Unit.Equal(unit.Second()) {
		t.Fatalf("dx = %v, want 1/2048 s", dx)
	}
}

func TestResampleDownThenUpRestores(t *testing.T) {
	s := toneSeries(t, 64, 4096, 1024)

	down, err := s.Resample(2048)
	if err != nil {
		t.Fatalf("down: %v", err)
	}
	up, err := down.Resample(4096)
	if err != nil {
		t.Fatalf("up: %v", err)
	}
	if up.Len() != s.Len() {
		t.Fatalf("round-trip length = %d, want %d", up.Len(), s.Len())
	}
	testutil.RequireSliceNearlyEqual(t, up.Data(), s.Data(), 1e-9)
}

func TestResampleLeavesReceiver(t *testing.T) {
	s := toneSeries(t, 64, 4096, 1024)
	orig := append([]float64(nil), s.Data()...)

	res, err := s.Resample(4096)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if res == s {
		t.Fatal("resample returned the receiver")
	}
	// resampling at the original rate reproduces the input
	testutil.RequireSliceNearlyEqual(t, res.Data(), orig, 1e-9)
	testutil.RequireSliceNearlyEqual(t, s.Data(), orig, 0)

	// identity carried to the result
	if name, _ := res.Name(); name != "tone" {
		t.Fatalf("name = %q", name)
	}
	if !res.Unit().Equal(unit.Strain()) {
		t.Fatalf("unit = %v", res.Unit())
	}
	if epoch, ok := res.Epoch(); !ok || epoch != 1187008882.0 {
		t.Fatalf("epoch = %v, %v", epoch, ok)
	}
	x0, err := res.X0()
	if err != nil {
		t.Fatalf("X0: %v", err)
	}
	if x0.Value != 0 {
		t.Fatalf("x0 = %v, want 0", x0)
	}
}

func TestResampleWindowTapersSpectrum(t *testing.T) {
	s := toneSeries(t, 64, 4096, 1024)

	plain, err := s.Resample(2048)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	tapered, err := s.Resample(2048, WithResampleWindow(window.TypeHann))
	if err != nil {
		t.Fatalf("tapered: %v", err)
	}
	if tapered.Len() != plain.Len() {
		t.Fatalf("len = %d, want %d", tapered.Len(), plain.Len())
	}

	// A 64 Hz bin sits close to the rotated window's center, so the tone
	// survives lightly attenuated.
	ratio := rms(tapered.Data()) / rms(plain.Data())
	if ratio <= 0.99 || ratio >= 1.0 {
		t.Fatalf("tapered/plain rms ratio = %v", ratio)
	}
}

func TestResampleRejectsBadInput(t *testing.T) {
	s := toneSeries(t, 64, 4096, 1024)

	if _, err := s.Resample(0); !errors.Is(err, ErrValue) {
		t.Fatalf("rate 0: %v", err)
	}
	if _, err := s.Resample(-1); !errors.Is(err, ErrValue) {
		t.Fatalf("rate -1: %v", err)
	}
	// rounding to zero output samples
	if _, err := s.Resample(1e-6); !errors.Is(err, ErrValue) {
		t.Fatalf("vanishing rate: %v", err)
	}

	s.DeleteDX()
	if _, err := s.Resample(2048); !errors.Is(err, ErrKeyNotSet) {
		t.Fatalf("missing step: %v", err)
	}
}

func rms(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(xs)))
}
