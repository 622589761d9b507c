package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// WilliamsR calculates the Williams %R oscillator over the rolling price
// extrema of the window:
//
//	%R = -100 * (highest - price) / (highest - lowest)
//
// The extrema come from a monotonic-deque accumulator, so updates stay
// amortized O(1) regardless of the period. A flat window (highest equals
// lowest) yields the neutral value -50, not a division error.
type WilliamsR struct {
	period    int
	name      string
	policy    MinPeriodsPolicy
	extrema   *window.MinMax
	lastPrice float64
	ready     bool
	processed int
}

// NewWilliamsR creates a new Williams %R calculator with the specified period.
func NewWilliamsR(period int, policy MinPeriodsPolicy) (*WilliamsR, error) {
	if period < 1 {
		return nil, fmt.Errorf("williams %%R period must be at least 1, got %d", period)
	}

	extrema, err := window.NewMinMax(period)
	if err != nil {
		return nil, err
	}

	return &WilliamsR{
		period:  period,
		name:    fmt.Sprintf("wr_%d", period),
		policy:  policy,
		extrema: extrema,
	}, nil
}

// Name returns the indicator name
func (w *WilliamsR) Name() string {
	return w.name
}

// Update processes a new sample and updates the oscillator
func (w *WilliamsR) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	w.extrema.Push(sample.Price)
	w.lastPrice = sample.Price
	w.processed++

	if w.extrema.Full() || w.policy == MinPeriodsPartial {
		w.ready = true
	}

	if !w.ready {
		return 0, nil
	}
	return w.calculate(), nil
}

func (w *WilliamsR) calculate() float64 {
	highest := w.extrema.Max()
	lowest := w.extrema.Min()
	if highest == lowest {
		return -50.0
	}
	return -100.0 * (highest - w.lastPrice) / (highest - lowest)
}

// Value returns the current %R value
func (w *WilliamsR) Value() (float64, error) {
	if !w.ready {
		return 0, fmt.Errorf("%w: williams %%R needs at least %d samples", models.ErrNotReady, w.WindowSize())
	}
	return w.calculate(), nil
}

// Reset clears the oscillator state
func (w *WilliamsR) Reset() {
	w.extrema.Reset()
	w.lastPrice = 0
	w.ready = false
	w.processed = 0
}

// IsReady returns true if the oscillator has enough data
func (w *WilliamsR) IsReady() bool {
	return w.ready
}

// WindowSize returns the number of samples required before %R is ready
func (w *WilliamsR) WindowSize() int {
	if w.policy == MinPeriodsPartial {
		return 1
	}
	return w.period
}

// SamplesProcessed returns the number of samples processed
func (w *WilliamsR) SamplesProcessed() int {
	return w.processed
}
