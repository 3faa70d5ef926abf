// Package stats provides a mergeable running aggregate over a stream of
// numeric samples, built for partitioned computation: each data shard
// accumulates independently and the partial states combine into one
// exact result.
package stats

import "math"

// Accumulator tracks count, mean, and sum of squared deviations using
// Welford's online update rule, which stays numerically stable over
// large counts where a naive sum-of-squares formula loses precision.
// The zero value is an empty accumulator.
type Accumulator struct {
	n    int64
	mean float64
	m2   float64 // sum of squared deviations from the running mean
}

// Add incorporates one sample.
func (a *Accumulator) Add(x float64) {
	a.n++
	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)
}

// Merge combines two accumulators into one equivalent to having
// observed both sample sets in a single pass. Merge is commutative and
// associative up to floating-point rounding, with the empty accumulator
// as identity, so any grouping of partial states yields the same result.
func Merge(a, b Accumulator) Accumulator {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}

	n := a.n + b.n
	delta := b.mean - a.mean
	return Accumulator{
		n:    n,
		mean: a.mean + delta*float64(b.n)/float64(n),
		m2:   a.m2 + b.m2 + delta*delta*float64(a.n)*float64(b.n)/float64(n),
	}
}

// Count returns the number of samples observed.
func (a Accumulator) Count() int64 {
	return a.n
}

// Mean returns the arithmetic mean, or 0 for an empty accumulator.
func (a Accumulator) Mean() float64 {
	return a.mean
}

// SampleStdDev returns the sample standard deviation with Bessel's
// correction. The second return is false when fewer than two samples
// have been observed and the statistic is undefined.
func (a Accumulator) SampleStdDev() (float64, bool) {
	if a.n < 2 {
		return 0, false
	}
	return math.Sqrt(a.m2 / float64(a.n-1)), true
}
