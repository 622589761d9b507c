package indicator

import (
	"fmt"
	"math"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// ATR calculates the Average True Range over a price-only series: the true
// range degenerates to the absolute price change between consecutive
// samples, smoothed with Wilder's smoothing (the conventional ATR default).
type ATR struct {
	period    int
	name      string
	smoothed  *window.Wilder
	prevPrice float64
	hasPrev   bool
	processed int
}

// NewATR creates a new ATR calculator with the specified period.
func NewATR(period int) (*ATR, error) {
	if period < 1 {
		return nil, fmt.Errorf("ATR period must be at least 1, got %d", period)
	}

	smoothed, err := window.NewWilder(period)
	if err != nil {
		return nil, err
	}

	return &ATR{
		period:   period,
		name:     fmt.Sprintf("atr_%d", period),
		smoothed: smoothed,
	}, nil
}

// Name returns the indicator name
func (a *ATR) Name() string {
	return a.name
}

// Update processes a new sample and updates the ATR calculation
func (a *ATR) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	a.processed++

	if !a.hasPrev {
		a.prevPrice = sample.Price
		a.hasPrev = true
		return 0, nil
	}

	tr := math.Abs(sample.Price - a.prevPrice)
	a.prevPrice = sample.Price
	a.smoothed.Update(tr)

	if !a.IsReady() {
		return 0, nil
	}
	return a.smoothed.Value(), nil
}

// Value returns the current ATR value
func (a *ATR) Value() (float64, error) {
	if !a.IsReady() {
		return 0, fmt.Errorf("%w: ATR needs at least %d samples", models.ErrNotReady, a.WindowSize())
	}
	return a.smoothed.Value(), nil
}

// Reset clears the ATR state
func (a *ATR) Reset() {
	a.smoothed.Reset()
	a.prevPrice = 0
	a.hasPrev = false
	a.processed = 0
}

// IsReady returns true once period true ranges have been consumed
func (a *ATR) IsReady() bool {
	return a.smoothed.Primed()
}

// WindowSize returns period + 1: the first sample produces no true range
func (a *ATR) WindowSize() int {
	return a.period + 1
}

// SamplesProcessed returns the number of samples processed
func (a *ATR) SamplesProcessed() int {
	return a.processed
}
