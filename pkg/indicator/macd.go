package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/window"
)

// MACD calculates Moving Average Convergence Divergence as a composition of
// exponential accumulators: MACD = EMA(fast) - EMA(slow), with a signal line
// EMA(MACD, signal span) and histogram MACD - signal. Warm-up and seeding
// behavior is inherited from the underlying accumulators, which are defined
// from the first sample onward.
type MACD struct {
	name      string
	fast      *window.EWMA
	slow      *window.EWMA
	signal    *window.EWMA
	macd      float64
	sig       float64
	processed int
}

// NewMACD creates a new MACD calculator with the given fast, slow and
// signal spans (conventionally 12, 26, 9).
func NewMACD(fastSpan, slowSpan, signalSpan int) (*MACD, error) {
	if fastSpan < 1 || slowSpan < 1 || signalSpan < 1 {
		return nil, fmt.Errorf("MACD spans must be at least 1, got %d/%d/%d", fastSpan, slowSpan, signalSpan)
	}
	if fastSpan >= slowSpan {
		return nil, fmt.Errorf("MACD fast span %d must be shorter than slow span %d", fastSpan, slowSpan)
	}

	fast, err := window.NewEWMA(fastSpan)
	if err != nil {
		return nil, err
	}
	slow, err := window.NewEWMA(slowSpan)
	if err != nil {
		return nil, err
	}
	signal, err := window.NewEWMA(signalSpan)
	if err != nil {
		return nil, err
	}

	return &MACD{
		name:   fmt.Sprintf("macd_%d_%d_%d", fastSpan, slowSpan, signalSpan),
		fast:   fast,
		slow:   slow,
		signal: signal,
	}, nil
}

// Name returns the indicator name
func (m *MACD) Name() string {
	return m.name
}

// Update processes a new sample and updates all three lines
func (m *MACD) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	f := m.fast.Update(sample.Price)
	s := m.slow.Update(sample.Price)
	m.macd = f - s
	m.sig = m.signal.Update(m.macd)
	m.processed++

	return m.macd, nil
}

// Value returns the current MACD line value
func (m *MACD) Value() (float64, error) {
	if !m.IsReady() {
		return 0, fmt.Errorf("%w: MACD needs at least 1 sample", models.ErrNotReady)
	}
	return m.macd, nil
}

// Outputs returns the MACD line, signal and histogram column names
func (m *MACD) Outputs() []string {
	return []string{m.name, m.name + "_signal", m.name + "_hist"}
}

// Values returns all three lines by output name
func (m *MACD) Values() map[string]float64 {
	return map[string]float64{
		m.name:             m.macd,
		m.name + "_signal": m.sig,
		m.name + "_hist":   m.macd - m.sig,
	}
}

// Reset clears the MACD state
func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.macd = 0
	m.sig = 0
	m.processed = 0
}

// IsReady returns true once the underlying accumulators are seeded
func (m *MACD) IsReady() bool {
	return m.fast.Seeded() && m.slow.Seeded() && m.signal.Seeded()
}

// WindowSize returns 1, inherited from the exponential accumulators
func (m *MACD) WindowSize() int {
	return 1
}

// SamplesProcessed returns the number of samples processed
func (m *MACD) SamplesProcessed() int {
	return m.processed
}
