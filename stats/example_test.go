package stats_test

import (
	"fmt"

	"github.com/cwbudde/algo-gw/stats"
)

func ExampleAccumulator() {
	var acc stats.Accumulator
	acc.AddSlice([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f crossings=%d\n", acc.RMS(), acc.ZeroCrossings())

	// Output:
	// rms=1.0 crossings=3
}

func ExampleAccumulator_Merge() {
	var a, b stats.Accumulator
	a.AddSlice([]float64{1, 2})
	b.AddSlice([]float64{3, 4})
	a.Merge(&b)
	fmt.Printf("n=%d mean=%.1f\n", a.Count(), a.Mean())

	// Output:
	// n=4 mean=2.5
}
