package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// Momentum calculates the absolute price difference against the price
// `period` samples back: MOM = price - price_{t-period}.
type Momentum struct {
	period    int
	name      string
	win       *window.Rolling
	lastPrice float64
	processed int
}

// NewMomentum creates a new momentum calculator with the specified period.
func NewMomentum(period int) (*Momentum, error) {
	if period < 1 {
		return nil, fmt.Errorf("momentum period must be at least 1, got %d", period)
	}

	win, err := window.NewRolling(period + 1)
	if err != nil {
		return nil, err
	}

	return &Momentum{
		period: period,
		name:   fmt.Sprintf("mom_%d", period),
		win:    win,
	}, nil
}

// Name returns the indicator name
func (m *Momentum) Name() string {
	return m.name
}

// Update processes a new sample and updates the momentum calculation
func (m *Momentum) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	m.win.Push(sample.Price)
	m.lastPrice = sample.Price
	m.processed++

	if !m.win.Full() {
		return 0, nil
	}
	base, _ := m.win.Oldest()
	return m.lastPrice - base, nil
}

// Value returns the current momentum value
func (m *Momentum) Value() (float64, error) {
	if !m.win.Full() {
		return 0, fmt.Errorf("%w: momentum needs at least %d samples", models.ErrNotReady, m.WindowSize())
	}
	base, _ := m.win.Oldest()
	return m.lastPrice - base, nil
}

// Reset clears the momentum state
func (m *Momentum) Reset() {
	m.win.Reset()
	m.lastPrice = 0
	m.processed = 0
}

// IsReady returns true if the reference price is available
func (m *Momentum) IsReady() bool {
	return m.win.Full()
}

// WindowSize returns period + 1 samples
func (m *Momentum) WindowSize() int {
	return m.period + 1
}

// SamplesProcessed returns the number of samples processed
func (m *Momentum) SamplesProcessed() int {
	return m.processed
}
