package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// SMA calculates the Simple Moving Average
// SMA = sum of prices over the window / true count
type SMA struct {
	period    int
	name      string
	policy    MinPeriodsPolicy
	win       *window.Rolling
	ready     bool
	processed int
}

// NewSMA creates a new SMA calculator with the specified period.
func NewSMA(period int, policy MinPeriodsPolicy) (*SMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("SMA period must be at least 1, got %d", period)
	}

	win, err := window.NewRolling(period)
	if err != nil {
		return nil, err
	}

	return &SMA{
		period: period,
		name:   fmt.Sprintf("sma_%d", period),
		policy: policy,
		win:    win,
	}, nil
}

// Name returns the indicator name
func (s *SMA) Name() string {
	return s.name
}

// Update processes a new sample and updates the SMA calculation
func (s *SMA) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	s.win.Push(sample.Price)
	s.processed++

	if s.win.Full() || s.policy == MinPeriodsPartial {
		s.ready = true
	}

	if !s.ready {
		return 0, nil
	}
	return s.win.Mean(), nil
}

// Value returns the current SMA value
func (s *SMA) Value() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("%w: SMA needs at least %d samples", models.ErrNotReady, s.WindowSize())
	}
	return s.win.Mean(), nil
}

// Reset clears the SMA state
func (s *SMA) Reset() {
	s.win.Reset()
	s.ready = false
	s.processed = 0
}

// IsReady returns true if the SMA has enough data
func (s *SMA) IsReady() bool {
	return s.ready
}

// WindowSize returns the number of samples required before the SMA is ready
func (s *SMA) WindowSize() int {
	if s.policy == MinPeriodsPartial {
		return 1
	}
	return s.period
}

// SamplesProcessed returns the number of samples processed
func (s *SMA) SamplesProcessed() int {
	return s.processed
}
