package sources

import (
	"fmt"
	"sort"
)

// List is an ordered collection of bursts.
type List []*GRB

// Select returns the bursts for which keep returns true, preserving
// order. The result shares no backing storage with l.
func (l List) Select(keep func(*GRB) bool) List {
	var out List
	for _, g := range l {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

// Shortest returns the burst with the smallest measured T90. It fails
// with ErrNoDuration when no burst in the list carries one.
func (l List) Shortest() (*GRB, error) {
	return l.extreme(func(a, b float64) bool { return a < b })
}

// Longest returns the burst with the largest measured T90. It fails with
// ErrNoDuration when no burst in the list carries one.
func (l List) Longest() (*GRB, error) {
	return l.extreme(func(a, b float64) bool { return a > b })
}

func (l List) extreme(better func(a, b float64) bool) (*GRB, error) {
	var best *GRB
	for _, g := range l {
		t90, ok := g.T90()
		if !ok {
			continue
		}
		if best == nil || better(t90, best.t90) {
			best = g
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w in a list of %d bursts", ErrNoDuration, len(l))
	}
	return best, nil
}

// SortByTime orders the list chronologically by trigger time. Bursts
// without a recorded time keep their relative order at the end.
func (l List) SortByTime() {
	sort.SliceStable(l, func(i, j int) bool {
		ti, iok := l[i].Time()
		tj, jok := l[j].Time()
		if iok != jok {
			return iok
		}
		return iok && ti < tj
	})
}

// SortByT90 orders the list from shortest to longest measured duration.
// Bursts without one keep their relative order at the end.
func (l List) SortByT90() {
	sort.SliceStable(l, func(i, j int) bool {
		ti, iok := l[i].T90()
		tj, jok := l[j].T90()
		if iok != jok {
			return iok
		}
		return iok && ti < tj
	})
}
