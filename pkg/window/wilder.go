package window

import "fmt"

// Wilder implements Wilder's recursive smoothing as used by RSI and ATR:
// the first `period` values are averaged to seed the accumulator, after
// which each update applies
//
//	v_t = (v_{t-1}*(period-1) + x_t) / period
type Wilder struct {
	period int
	count  int
	seed   float64
	value  float64
}

// NewWilder creates a Wilder smoothing accumulator for the given period.
func NewWilder(period int) (*Wilder, error) {
	if period < 1 {
		return nil, fmt.Errorf("wilder period must be at least 1, got %d", period)
	}
	return &Wilder{period: period}, nil
}

// Update folds in a new value and returns the current smoothed value.
// Before the accumulator is primed the returned value is the running seed
// average over the inputs seen so far.
func (w *Wilder) Update(x float64) float64 {
	if w.count < w.period {
		w.seed += x
		w.count++
		w.value = w.seed / float64(w.count)
		return w.value
	}
	w.count++
	w.value = (w.value*float64(w.period-1) + x) / float64(w.period)
	return w.value
}

// Primed reports whether the seed average is complete.
func (w *Wilder) Primed() bool {
	return w.count >= w.period
}

// Count returns the number of values folded in.
func (w *Wilder) Count() int {
	return w.count
}

// Value returns the current smoothed value.
func (w *Wilder) Value() float64 {
	return w.value
}

// Reset clears the accumulator.
func (w *Wilder) Reset() {
	w.count = 0
	w.seed = 0
	w.value = 0
}
