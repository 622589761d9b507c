package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// VWAP calculates the session Volume Weighted Average Price:
// cumulative(price * volume) / cumulative(volume). The indicator stays
// not-ready until some volume has been observed; a zero cumulative volume
// is never divided through.
type VWAP struct {
	cum       *window.Cumulative
	processed int
}

// NewVWAP creates a new VWAP calculator.
func NewVWAP() (*VWAP, error) {
	return &VWAP{cum: window.NewCumulative()}, nil
}

// Name returns the indicator name
func (v *VWAP) Name() string {
	return "vwap"
}

// Update processes a new sample and updates the VWAP calculation
func (v *VWAP) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	v.processed++
	v.cum.Add(sample.Price, sample.VolumeOrZero())

	value, ok := v.cum.WeightedMean()
	if !ok {
		return 0, nil
	}
	return value, nil
}

// Value returns the current VWAP value
func (v *VWAP) Value() (float64, error) {
	value, ok := v.cum.WeightedMean()
	if !ok {
		return 0, fmt.Errorf("%w: VWAP needs volume observations", models.ErrNotReady)
	}
	return value, nil
}

// Reset clears the VWAP state
func (v *VWAP) Reset() {
	v.cum.Reset()
	v.processed = 0
}

// IsReady returns true once cumulative volume is positive. Volumes are
// non-negative, so readiness never reverts.
func (v *VWAP) IsReady() bool {
	_, ok := v.cum.WeightedMean()
	return ok
}

// WindowSize returns 1
func (v *VWAP) WindowSize() int {
	return 1
}

// SamplesProcessed returns the number of samples processed
func (v *VWAP) SamplesProcessed() int {
	return v.processed
}
