package window

import "fmt"

// EWMA is an exponentially weighted moving average with smoothing factor
// alpha = 2 / (span + 1). The first value seeds the accumulator directly, so
// replaying a series sample by sample is exactly equivalent to a batch pass.
type EWMA struct {
	span   int
	alpha  float64
	value  float64
	seeded bool
}

// NewEWMA creates an exponential accumulator for the given span.
func NewEWMA(span int) (*EWMA, error) {
	if span < 1 {
		return nil, fmt.Errorf("ewma span must be at least 1, got %d", span)
	}
	return &EWMA{
		span:  span,
		alpha: 2.0 / float64(span+1),
	}, nil
}

// Update folds in a new value and returns the current smoothed value.
func (e *EWMA) Update(x float64) float64 {
	if !e.seeded {
		e.value = x
		e.seeded = true
		return e.value
	}
	e.value = e.alpha*x + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current smoothed value.
func (e *EWMA) Value() float64 {
	return e.value
}

// Seeded reports whether at least one value has been folded in.
func (e *EWMA) Seeded() bool {
	return e.seeded
}

// Span returns the configured span.
func (e *EWMA) Span() int {
	return e.span
}

// Reset clears the accumulator.
func (e *EWMA) Reset() {
	e.value = 0
	e.seeded = false
}
