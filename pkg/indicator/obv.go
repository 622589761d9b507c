package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
)

// OBV calculates On-Balance Volume: a cumulative signed volume total that
// adds volume on up-moves and subtracts it on down-moves. Samples without a
// volume observation contribute nothing. The first sample seeds the total
// with its own volume.
type OBV struct {
	value     float64
	prevPrice float64
	hasPrev   bool
	processed int
}

// NewOBV creates a new OBV calculator.
func NewOBV() (*OBV, error) {
	return &OBV{}, nil
}

// Name returns the indicator name
func (o *OBV) Name() string {
	return "obv"
}

// Update processes a new sample and updates the cumulative total
func (o *OBV) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	o.processed++
	vol := sample.VolumeOrZero()

	if !o.hasPrev {
		o.value = vol
		o.prevPrice = sample.Price
		o.hasPrev = true
		return o.value, nil
	}

	switch {
	case sample.Price > o.prevPrice:
		o.value += vol
	case sample.Price < o.prevPrice:
		o.value -= vol
	}
	o.prevPrice = sample.Price

	return o.value, nil
}

// Value returns the current OBV total
func (o *OBV) Value() (float64, error) {
	if !o.hasPrev {
		return 0, fmt.Errorf("%w: OBV needs at least 1 sample", models.ErrNotReady)
	}
	return o.value, nil
}

// Reset clears the OBV state
func (o *OBV) Reset() {
	o.value = 0
	o.prevPrice = 0
	o.hasPrev = false
	o.processed = 0
}

// IsReady returns true once a sample has been consumed
func (o *OBV) IsReady() bool {
	return o.hasPrev
}

// WindowSize returns 1
func (o *OBV) WindowSize() int {
	return 1
}

// SamplesProcessed returns the number of samples processed
func (o *OBV) SamplesProcessed() int {
	return o.processed
}
