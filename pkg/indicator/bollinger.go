package indicator

import (
	"fmt"
	"math"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// BollingerBands calculates a volatility envelope around a simple moving
// average: middle = SMA, upper/lower = SMA +/- k * rolling stddev. The bands
// are a composition over the same rolling accumulator the SMA uses, so
// warm-up behavior is inherited rather than re-derived. A constant price
// window yields zero-width bands, not an error.
type BollingerBands struct {
	period    int
	k         float64
	name      string
	policy    MinPeriodsPolicy
	win       *window.Rolling
	ready     bool
	processed int
}

// NewBollingerBands creates Bollinger Bands with the given period and
// deviation multiplier (conventionally 20 and 2.0).
func NewBollingerBands(period int, multiplier float64, policy MinPeriodsPolicy) (*BollingerBands, error) {
	if period < 2 {
		return nil, fmt.Errorf("bollinger period must be at least 2, got %d", period)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("bollinger multiplier must be positive, got %f", multiplier)
	}

	win, err := window.NewRolling(period)
	if err != nil {
		return nil, err
	}

	return &BollingerBands{
		period: period,
		k:      multiplier,
		name:   fmt.Sprintf("bb_%d_%.1f", period, multiplier),
		policy: policy,
		win:    win,
	}, nil
}

// Name returns the indicator name
func (b *BollingerBands) Name() string {
	return b.name
}

// Update processes a new sample and updates the bands
func (b *BollingerBands) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	b.win.Push(sample.Price)
	b.processed++

	if b.win.Full() || b.policy == MinPeriodsPartial {
		b.ready = true
	}

	if !b.ready {
		return 0, nil
	}
	return b.win.Mean(), nil
}

// Value returns the middle band (the SMA)
func (b *BollingerBands) Value() (float64, error) {
	if !b.ready {
		return 0, fmt.Errorf("%w: bollinger needs at least %d samples", models.ErrNotReady, b.WindowSize())
	}
	return b.win.Mean(), nil
}

// Outputs returns the middle, upper and lower band column names
func (b *BollingerBands) Outputs() []string {
	return []string{b.name, b.name + "_upper", b.name + "_lower"}
}

// Values returns all three bands by output name
func (b *BollingerBands) Values() map[string]float64 {
	mean := b.win.Mean()
	dev := b.k * math.Sqrt(b.win.Variance())
	return map[string]float64{
		b.name:            mean,
		b.name + "_upper": mean + dev,
		b.name + "_lower": mean - dev,
	}
}

// Reset clears the band state
func (b *BollingerBands) Reset() {
	b.win.Reset()
	b.ready = false
	b.processed = 0
}

// IsReady returns true if the bands have enough data
func (b *BollingerBands) IsReady() bool {
	return b.ready
}

// WindowSize returns the number of samples required before the bands are ready
func (b *BollingerBands) WindowSize() int {
	if b.policy == MinPeriodsPartial {
		return 1
	}
	return b.period
}

// SamplesProcessed returns the number of samples processed
func (b *BollingerBands) SamplesProcessed() int {
	return b.processed
}
