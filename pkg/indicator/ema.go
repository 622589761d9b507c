package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// EMA calculates the Exponential Moving Average with smoothing factor
// alpha = 2 / (span + 1). The first sample seeds the average directly, so
// a single-sample series yields exactly that sample's price.
type EMA struct {
	span      int
	name      string
	ewma      *window.EWMA
	processed int
}

// NewEMA creates a new EMA calculator with the specified span.
func NewEMA(span int) (*EMA, error) {
	if span < 1 {
		return nil, fmt.Errorf("EMA span must be at least 1, got %d", span)
	}

	ewma, err := window.NewEWMA(span)
	if err != nil {
		return nil, err
	}

	return &EMA{
		span: span,
		name: fmt.Sprintf("ema_%d", span),
		ewma: ewma,
	}, nil
}

// Name returns the indicator name
func (e *EMA) Name() string {
	return e.name
}

// Update processes a new sample and updates the EMA calculation
func (e *EMA) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	e.processed++
	return e.ewma.Update(sample.Price), nil
}

// Value returns the current EMA value
func (e *EMA) Value() (float64, error) {
	if !e.ewma.Seeded() {
		return 0, fmt.Errorf("%w: EMA needs at least 1 sample", models.ErrNotReady)
	}
	return e.ewma.Value(), nil
}

// Reset clears the EMA state
func (e *EMA) Reset() {
	e.ewma.Reset()
	e.processed = 0
}

// IsReady returns true once the EMA has been seeded
func (e *EMA) IsReady() bool {
	return e.ewma.Seeded()
}

// WindowSize returns 1: the EMA is defined from the first sample
func (e *EMA) WindowSize() int {
	return 1
}

// SamplesProcessed returns the number of samples processed
func (e *EMA) SamplesProcessed() int {
	return e.processed
}
