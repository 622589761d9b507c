// Package window provides the sliding-window primitives shared by the
// indicator calculators: bounded rolling statistics, exponential smoothing,
// Wilder smoothing, rolling extrema and cumulative sums. Each accumulator is
// owned by exactly one calculator instance and is updated once per sample.
package window

import "fmt"

// Rolling maintains a bounded FIFO of the last `period` values together with
// a running sum and sum of squares, so mean and variance are O(1) per update.
type Rolling struct {
	period int
	values []float64
	head   int
	count  int
	sum    float64
	sumSq  float64
}

// NewRolling creates a rolling accumulator over the given period.
func NewRolling(period int) (*Rolling, error) {
	if period < 1 {
		return nil, fmt.Errorf("rolling period must be at least 1, got %d", period)
	}
	return &Rolling{
		period: period,
		values: make([]float64, period),
	}, nil
}

// Push adds a value, evicting the oldest one once the window is full.
func (r *Rolling) Push(x float64) {
	if r.count == r.period {
		old := r.values[r.head]
		r.sum -= old
		r.sumSq -= old * old
	} else {
		r.count++
	}
	r.values[r.head] = x
	r.head = (r.head + 1) % r.period
	r.sum += x
	r.sumSq += x * x
}

// Count returns the number of values currently held, never more than period.
func (r *Rolling) Count() int {
	return r.count
}

// Full reports whether the window holds period values.
func (r *Rolling) Full() bool {
	return r.count == r.period
}

// Sum returns the running sum over the held values.
func (r *Rolling) Sum() float64 {
	return r.sum
}

// Mean divides by the true count, never by the period, so partial windows
// are not skewed during warm-up.
func (r *Rolling) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// Variance returns the population variance over the held values. Rounding
// in the running sums can push the raw result slightly negative for constant
// inputs; it is clamped to zero.
func (r *Rolling) Variance() float64 {
	if r.count == 0 {
		return 0
	}
	n := float64(r.count)
	mean := r.sum / n
	v := r.sumSq/n - mean*mean
	if v < 0 {
		return 0
	}
	return v
}

// Oldest returns the oldest held value, or false if the window is empty.
func (r *Rolling) Oldest() (float64, bool) {
	if r.count == 0 {
		return 0, false
	}
	idx := r.head
	if r.count < r.period {
		idx = (r.head - r.count + r.period) % r.period
	}
	return r.values[idx], true
}

// Reset clears the window.
func (r *Rolling) Reset() {
	r.head = 0
	r.count = 0
	r.sum = 0
	r.sumSq = 0
}
