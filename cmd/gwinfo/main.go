// Command gwinfo inspects serialized series and grid frames.
//
// Usage:
//
//	gwinfo [flags] file.gwsf ...
//
// For each file it prints the container kind, shape, a sample preview,
// the carried metadata and the axis spans. Errors go to stderr; the exit
// code is 1 when any file fails.
//
// Examples:
//
//	gwinfo strain.gwsf
//	gwinfo -stats -max 4 strain.gwsf
//	gwinfo -meta -index spectrogram.gwsf
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-gw/frame"
	"github.com/cwbudde/algo-gw/series"
	"github.com/cwbudde/algo-gw/stats"
)

func main() {
	showStats := flag.Bool("stats", false, "print sample statistics")
	showMeta := flag.Bool("meta", false, "print metadata extras")
	showIndex := flag.Bool("index", false, "print axis index previews")
	maxSamples := flag.Int("max", 8, "samples per preview before eliding the middle")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gwinfo [flags] file.gwsf ...\n\n")
		fmt.Fprintf(os.Stderr, "Prints the kind, shape, axes and metadata of serialized frames.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gwinfo strain.gwsf\n")
		fmt.Fprintf(os.Stderr, "  gwinfo -stats -max 4 strain.gwsf\n")
		fmt.Fprintf(os.Stderr, "  gwinfo -meta -index spectrogram.gwsf\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	code := 0
	for i, path := range flag.Args() {
		if i > 0 {
			fmt.Println()
		}
		if err := describe(path, *showStats, *showMeta, *showIndex, *maxSamples); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			code = 1
		}
	}
	os.Exit(code)
}

// table collects label/value rows and remembers the first write error.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable() *table {
	return &table{tw: tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)}
}

func (t *table) row(label, format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.tw, "%s\t%s\n", label, fmt.Sprintf(format, args...))
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.tw.Flush()
}

func describe(path string, showStats, showMeta, showIndex bool, maxSamples int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	obj, err := frame.Decode(data)
	if err != nil {
		return err
	}

	t := newTable()
	t.row("file", "%s (%d bytes)", path, len(data))

	var arr *series.Array
	switch v := obj.(type) {
	case *series.Series:
		arr = &v.Array
		t.row("kind", "%s", frame.KindSeries)
		describeArray(t, arr, maxSamples)
		describeAxis(t, "x", v.XAxis(), v.Len(), showIndex, maxSamples)
	case *series.Grid:
		arr = &v.Array
		t.row("kind", "%s", frame.KindGrid)
		describeArray(t, arr, maxSamples)
		describeAxis(t, "x", v.XAxis(), v.NX(), showIndex, maxSamples)
		describeAxis(t, "y", v.YAxis(), v.NY(), showIndex, maxSamples)
	case *series.Array:
		arr = v
		t.row("kind", "%s", frame.KindArray)
		describeArray(t, arr, maxSamples)
	default:
		return fmt.Errorf("unsupported frame payload %T", obj)
	}

	if showStats {
		describeStats(t, arr)
	}
	if showMeta {
		describeExtras(t, arr)
	}
	return t.flush()
}

func describeArray(t *table, x *series.Array, maxSamples int) {
	dims := make([]string, x.NDim())
	for i, n := range x.Shape() {
		dims[i] = fmt.Sprintf("%d", n)
	}
	t.row("shape", "%s", strings.Join(dims, "x"))
	t.row("data", "%s", preview(x.Data(), maxSamples))

	if name, ok := x.Name(); ok {
		t.row("name", "%q", name)
	}
	if u, ok := x.Meta().UnitOK(); ok {
		t.row("unit", "%s", u)
	}
	if epoch, ok := x.Epoch(); ok {
		t.row("epoch", "%s (%s)", epoch, epoch.UTC().Format("2006-01-02 15:04:05.000 MST"))
	}
	if c, ok := x.Channel(); ok {
		t.row("channel", "%s (id %016x)", c, c.ID())
		if rate, ok := c.SampleRate(); ok {
			t.row("sample rate", "%s", rate)
		}
	}
}

func describeAxis(t *table, label string, ax *series.Axis, n int, showIndex bool, maxSamples int) {
	if lo, hi, err := ax.Span(n); err == nil {
		t.row(label+" span", "[%s, %s)", lo, hi)
	}
	if step, err := ax.Step(); err == nil {
		t.row(label+" step", "%s", step)
	}
	if ax.Log() {
		t.row(label+" scale", "logarithmic")
	}
	if showIndex {
		if idx, err := ax.Index(n, ""); err == nil {
			t.row(label+" index", "%s", preview(idx.Data(), maxSamples))
		}
	}
}

func describeStats(t *table, x *series.Array) {
	var acc stats.Accumulator
	acc.AddSlice(x.Data())

	t.row("samples", "%d", acc.Count())
	t.row("mean", "%.6g", acc.Mean())
	t.row("std", "%.6g", acc.StdDev())
	t.row("rms", "%.6g", acc.RMS())
	t.row("min", "%.6g", acc.Min())
	t.row("max", "%.6g", acc.Max())
	t.row("skewness", "%.6g", acc.Skewness())
	t.row("kurtosis", "%.6g", acc.Kurtosis())
	t.row("zero crossings", "%d", acc.ZeroCrossings())
}

func describeExtras(t *table, x *series.Array) {
	extras := x.Meta().Extras()
	if len(extras) == 0 {
		t.row("extras", "(none)")
		return
	}
	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.row("extra "+k, "%v", extras[k])
	}
}

// preview renders at most max samples, eliding the middle of longer
// buffers.
func preview(vals []float64, max int) string {
	if max <= 0 {
		max = 8
	}
	var b strings.Builder
	b.WriteString("[")
	if len(vals) <= max {
		for i, v := range vals {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", v)
		}
	} else {
		head := max / 2
		tail := max - head
		for i := 0; i < head; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", vals[i])
		}
		b.WriteString(", ...")
		for i := len(vals) - tail; i < len(vals); i++ {
			fmt.Fprintf(&b, ", %g", vals[i])
		}
	}
	b.WriteString("]")
	return b.String()
}
