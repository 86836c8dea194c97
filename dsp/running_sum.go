// Package dsp holds the numeric building blocks shared by the FM and RDS
// filter stages: Kahan-compensated running sums, the SNR estimator built on
// top of them, the PLL loop-filter coefficient generator shared by the FM
// demodulator and the RDS Costas loop, and the resampling stage that sits
// between baseband demodulation and audio output.
package dsp

// RunningSum accumulates a bounded-window sum with Kahan compensation,
// grounded on hvylya's core::RunningSum (src/hvylya/core/running_sum.h):
// a ring of the last maxSize values plus a running total, periodically
// recomputed from scratch to bound floating-point drift.
//
// Unlike a plain ring-buffer sum (subtract the evicted value, add the new
// one), every add also accumulates a Kahan compensation term so the running
// total stays accurate across millions of additions; every maxIterations
// additions the sum is rebuilt from the ring contents directly, discarding
// accumulated error rather than letting it compound indefinitely.
type RunningSum struct {
	data []float64

	sum, compensation float64
	index, size       int
	iterations        int
	maxIterations      int
}

// defaultMaxIterations bounds how many compensated adds happen between
// from-scratch recomputations of the sum.
const defaultMaxIterations = 1 << 16

// NewRunningSum creates a RunningSum over a window of maxSize values.
func NewRunningSum(maxSize int) *RunningSum {
	r := &RunningSum{}
	r.SetSize(maxSize)
	return r
}

// SetSize resizes the window, discarding any accumulated state.
func (r *RunningSum) SetSize(maxSize int) {
	if maxSize <= 0 {
		maxSize = 1
	}
	r.data = make([]float64, maxSize)
	r.maxIterations = defaultMaxIterations
	r.Clear()
}

// Clear resets the running sum to its freshly constructed state.
func (r *RunningSum) Clear() {
	for i := range r.data {
		r.data[i] = 0
	}
	r.sum = 0
	r.compensation = 0
	r.index = 0
	r.size = 0
	r.iterations = 0
}

// Empty reports whether no values have been added yet.
func (r *RunningSum) Empty() bool { return r.size == 0 }

// Full reports whether the window has been completely filled at least once.
func (r *RunningSum) Full() bool { return r.size == len(r.data) }

// Size returns the number of values currently contributing to Sum.
func (r *RunningSum) Size() int { return r.size }

// Add pushes value into the window, evicting the oldest value once full,
// and returns the (possibly stale, recompensated) running total via Sum.
func (r *RunningSum) Add(value float64) {
	var evicted float64
	if r.Full() {
		evicted = r.data[r.index]
	} else {
		r.size++
	}
	r.data[r.index] = value
	r.index++
	if r.index == len(r.data) {
		r.index = 0
	}

	r.kahanAdd(value - evicted)

	r.iterations++
	if r.iterations >= r.maxIterations {
		r.recompute()
	}
}

// kahanAdd folds delta into sum using Neumaier's variant of Kahan
// summation, the standard fix for the compounding rounding error a naive
// running total accumulates over many additions.
func (r *RunningSum) kahanAdd(delta float64) {
	t := r.sum + delta
	if abs(r.sum) >= abs(delta) {
		r.compensation += (r.sum - t) + delta
	} else {
		r.compensation += (delta - t) + r.sum
	}
	r.sum = t
}

func (r *RunningSum) recompute() {
	var total float64
	for i := 0; i < r.size; i++ {
		total += r.data[i]
	}
	r.sum = total
	r.compensation = 0
	r.iterations = 0
}

// Sum returns the compensated running total over the current window.
func (r *RunningSum) Sum() float64 {
	return r.sum + r.compensation
}

// Avg returns Sum divided by Size, or 0 if empty.
func (r *RunningSum) Avg() float64 {
	if r.size == 0 {
		return 0
	}
	return r.Sum() / float64(r.size)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
