package spectral_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/spectral"
)

func ExampleWelch() {
	const fs = 256.0
	data := make([]float64, 1024)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 64 * float64(i) / fs)
	}
	ts, _ := series.New(data, series.WithName("tone"), series.WithDX(1/fs))

	psd, _ := spectral.Welch(ts, spectral.WithSegmentLength(256))
	peak := 0
	for i, v := range psd.Data() {
		if v > psd.Data()[peak] {
			peak = i
		}
	}
	df, _ := psd.DX()
	fmt.Printf("%d bins, peak at %g %s\n", psd.Len(), float64(peak)*df.Value, df.Unit)
	// Output: 129 bins, peak at 64 Hz
}

func ExampleSpectrogram() {
	const fs = 128.0
	data := make([]float64, 1024)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 32 * float64(i) / fs)
	}
	ts, _ := series.New(data, series.WithDX(1/fs))

	sg, _ := spectral.Spectrogram(ts, 256, spectral.MethodWelch, spectral.WithSegmentLength(128))
	dy, _ := sg.DY()
	fmt.Printf("%d strides of %d bins, df = %g %s\n", sg.NX(), sg.NY(), dy.Value, dy.Unit)
	// Output: 4 strides of 65 bins, df = 1 Hz
}
