package spectral

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/cwbudde/algo-gw/series"
)

func benchSeries(b *testing.B, n int) *series.Series {
	b.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	ts, err := series.New(data, series.WithDX(1.0/4096))
	if err != nil {
		b.Fatal(err)
	}
	return ts
}

func BenchmarkPSD(b *testing.B) {
	ts := benchSeries(b, 65536)
	for _, m := range []Method{MethodWelch, MethodMedian} {
		b.Run(fmt.Sprintf("method=%s", m), func(b *testing.B) {
			b.SetBytes(int64(ts.Len() * 8))
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				if _, err := PSD(ts, m, WithSegmentLength(1024)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBackends(b *testing.B) {
	ts := benchSeries(b, 65536)
	for _, backend := range []Backend{Native(), GoDSP()} {
		b.Run(backend.Name(), func(b *testing.B) {
			b.SetBytes(int64(ts.Len() * 8))
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				_, err := Welch(ts, WithSegmentLength(1024), WithBackend(backend))
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
