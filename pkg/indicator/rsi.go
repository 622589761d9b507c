package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// RSI calculates the Relative Strength Index
// RSI = 100 - (100 / (1 + RS)), RS = average gain / average loss,
// both smoothed with Wilder's recursive smoothing.
//
// Division guards use exact-zero case analysis rather than an epsilon:
// a zero average loss means RSI 100, and zero gain and loss together mean
// RSI 50 (no directional data).
type RSI struct {
	period    int
	name      string
	gains     *window.Wilder
	losses    *window.Wilder
	prevPrice float64
	hasPrev   bool
	processed int
}

// NewRSI creates a new RSI calculator with the specified period (typically 14).
func NewRSI(period int) (*RSI, error) {
	if period < 2 {
		return nil, fmt.Errorf("RSI period must be at least 2, got %d", period)
	}

	gains, err := window.NewWilder(period)
	if err != nil {
		return nil, err
	}
	losses, err := window.NewWilder(period)
	if err != nil {
		return nil, err
	}

	return &RSI{
		period: period,
		name:   fmt.Sprintf("rsi_%d", period),
		gains:  gains,
		losses: losses,
	}, nil
}

// Name returns the indicator name
func (r *RSI) Name() string {
	return r.name
}

// Update processes a new sample and updates the RSI calculation
func (r *RSI) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	r.processed++

	// First sample only establishes the reference price.
	if !r.hasPrev {
		r.prevPrice = sample.Price
		r.hasPrev = true
		return 0, nil
	}

	change := sample.Price - r.prevPrice
	r.prevPrice = sample.Price

	var gain, loss float64
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	r.gains.Update(gain)
	r.losses.Update(loss)

	if !r.IsReady() {
		return 0, nil
	}
	return r.calculate(), nil
}

func (r *RSI) calculate() float64 {
	avgGain := r.gains.Value()
	avgLoss := r.losses.Value()

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// Value returns the current RSI value
func (r *RSI) Value() (float64, error) {
	if !r.IsReady() {
		return 0, fmt.Errorf("%w: RSI needs at least %d samples", models.ErrNotReady, r.WindowSize())
	}
	return r.calculate(), nil
}

// Reset clears the RSI state
func (r *RSI) Reset() {
	r.gains.Reset()
	r.losses.Reset()
	r.prevPrice = 0
	r.hasPrev = false
	r.processed = 0
}

// IsReady returns true once period price changes have been consumed
func (r *RSI) IsReady() bool {
	return r.gains.Primed()
}

// WindowSize returns the number of samples required (period + 1, since the
// first sample produces no change)
func (r *RSI) WindowSize() int {
	return r.period + 1
}

// SamplesProcessed returns the number of samples processed
func (r *RSI) SamplesProcessed() int {
	return r.processed
}
