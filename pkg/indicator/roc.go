package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// ROC calculates the Rate of Change in percent against the price `period`
// samples back:
//
//	ROC = (price / price_{t-period} - 1) * 100
//
// A zero reference price yields 0 by definition rather than a division error.
type ROC struct {
	period    int
	name      string
	win       *window.Rolling
	lastPrice float64
	processed int
}

// NewROC creates a new ROC calculator with the specified period.
func NewROC(period int) (*ROC, error) {
	if period < 1 {
		return nil, fmt.Errorf("ROC period must be at least 1, got %d", period)
	}

	// Window holds the reference price period samples back plus the
	// samples in between.
	win, err := window.NewRolling(period + 1)
	if err != nil {
		return nil, err
	}

	return &ROC{
		period: period,
		name:   fmt.Sprintf("roc_%d", period),
		win:    win,
	}, nil
}

// Name returns the indicator name
func (r *ROC) Name() string {
	return r.name
}

// Update processes a new sample and updates the ROC calculation
func (r *ROC) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	r.win.Push(sample.Price)
	r.lastPrice = sample.Price
	r.processed++

	if !r.win.Full() {
		return 0, nil
	}
	return r.calculate(), nil
}

func (r *ROC) calculate() float64 {
	base, _ := r.win.Oldest()
	if base == 0 {
		return 0
	}
	return (r.lastPrice/base - 1) * 100
}

// Value returns the current ROC value
func (r *ROC) Value() (float64, error) {
	if !r.win.Full() {
		return 0, fmt.Errorf("%w: ROC needs at least %d samples", models.ErrNotReady, r.WindowSize())
	}
	return r.calculate(), nil
}

// Reset clears the ROC state
func (r *ROC) Reset() {
	r.win.Reset()
	r.lastPrice = 0
	r.processed = 0
}

// IsReady returns true if the reference price is available
func (r *ROC) IsReady() bool {
	return r.win.Full()
}

// WindowSize returns period + 1 samples
func (r *ROC) WindowSize() int {
	return r.period + 1
}

// SamplesProcessed returns the number of samples processed
func (r *ROC) SamplesProcessed() int {
	return r.processed
}
