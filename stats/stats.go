package stats

import "math"

// Accumulator collects summary statistics over a stream of samples in one
// pass, using Welford's online update for the central moments. The zero
// value is an empty accumulator ready for use.
type Accumulator struct {
	n    int
	mean float64
	m2   float64
	m3   float64
	m4   float64

	sumSq float64
	min   float64
	max   float64

	first     float64
	last      float64
	crossings int
}

// Add folds one sample into the running statistics.
func (a *Accumulator) Add(x float64) {
	a.n++
	ni := float64(a.n)

	delta := x - a.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(a.n-1)

	// M4 before M3 before M2: each update reads the lower moments as they
	// were before this sample.
	a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
	a.m3 += term1*deltaN*float64(a.n-2) - 3*deltaN*a.m2
	a.m2 += term1
	a.mean += deltaN

	a.sumSq += x * x

	if a.n == 1 {
		a.min, a.max = x, x
		a.first = x
	} else {
		if x < a.min {
			a.min = x
		}
		if x > a.max {
			a.max = x
		}
		if a.last*x < 0 {
			a.crossings++
		}
	}
	a.last = x
}

// AddSlice folds a block of samples into the running statistics.
func (a *Accumulator) AddSlice(xs []float64) {
	for _, x := range xs {
		a.Add(x)
	}
}

// Merge folds b's statistics into a, as if a had seen b's samples after
// its own. b is left unchanged.
func (a *Accumulator) Merge(b *Accumulator) {
	if b.n == 0 {
		return
	}
	if a.n == 0 {
		*a = *b
		return
	}

	na, nb := float64(a.n), float64(b.n)
	n := na + nb
	delta := b.mean - a.mean
	delta2 := delta * delta

	m2 := a.m2 + b.m2 + delta2*na*nb/n
	m3 := a.m3 + b.m3 + delta2*delta*na*nb*(na-nb)/(n*n) +
		3*delta*(na*b.m2-nb*a.m2)/n
	m4 := a.m4 + b.m4 + delta2*delta2*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6*delta2*(na*na*b.m2+nb*nb*a.m2)/(n*n) +
		4*delta*(na*b.m3-nb*a.m3)/n

	a.mean += delta * nb / n
	a.m2, a.m3, a.m4 = m2, m3, m4
	a.sumSq += b.sumSq
	a.min = math.Min(a.min, b.min)
	a.max = math.Max(a.max, b.max)

	// crossings at the seam between the two streams
	if a.last*b.first < 0 {
		a.crossings++
	}
	a.crossings += b.crossings
	a.last = b.last
	a.n += b.n
}

// Count reports the number of samples seen.
func (a *Accumulator) Count() int { return a.n }

// Mean reports the arithmetic mean, 0 when empty.
func (a *Accumulator) Mean() float64 { return a.mean }

// Variance reports the population variance, 0 when empty.
func (a *Accumulator) Variance() float64 {
	if a.n == 0 {
		return 0
	}
	return a.m2 / float64(a.n)
}

// StdDev reports the population standard deviation.
func (a *Accumulator) StdDev() float64 {
	return math.Sqrt(a.Variance())
}

// Skewness reports the standardized third moment, 0 for constant or empty
// input.
func (a *Accumulator) Skewness() float64 {
	v := a.Variance()
	if v <= 0 {
		return 0
	}
	return (a.m3 / float64(a.n)) / (v * math.Sqrt(v))
}

// Kurtosis reports the excess kurtosis, 0 for constant or empty input.
func (a *Accumulator) Kurtosis() float64 {
	v := a.Variance()
	if v <= 0 {
		return 0
	}
	return (a.m4/float64(a.n))/(v*v) - 3
}

// RMS reports the root mean square, 0 when empty.
func (a *Accumulator) RMS() float64 {
	if a.n == 0 {
		return 0
	}
	return math.Sqrt(a.sumSq / float64(a.n))
}

// Min reports the smallest sample seen, 0 when empty.
func (a *Accumulator) Min() float64 { return a.min }

// Max reports the largest sample seen, 0 when empty.
func (a *Accumulator) Max() float64 { return a.max }

// Peak reports the largest absolute sample seen.
func (a *Accumulator) Peak() float64 {
	return math.Max(math.Abs(a.min), math.Abs(a.max))
}

// Range reports max minus min.
func (a *Accumulator) Range() float64 { return a.max - a.min }

// ZeroCrossings reports the number of sign changes between consecutive
// samples.
func (a *Accumulator) ZeroCrossings() int { return a.crossings }

// Reset clears the accumulator for reuse.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
