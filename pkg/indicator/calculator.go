package indicator

import (
	"github.com/quantpulse/indicator-engine/internal/models"
)

// Calculator is the interface for computing technical indicators
// incrementally over a stream of samples. Each indicator type implements
// this interface.
type Calculator interface {
	// Name returns the unique name of this indicator (e.g., "rsi_14", "ema_50")
	Name() string

	// Update processes a new sample and updates the indicator state.
	// Returns the new indicator value, or 0 if not enough data yet.
	// A malformed sample fails the call and leaves the state unchanged.
	Update(sample *models.Sample) (float64, error)

	// Value returns the current indicator value.
	// Returns 0 and an error wrapping models.ErrNotReady before warm-up completes.
	Value() (float64, error)

	// Reset clears the indicator state (useful for re-seeding or testing)
	Reset()

	// IsReady returns true once the indicator has consumed enough samples
	// to produce a defined value. Readiness is monotonic: it never reverts,
	// even on degenerate later input.
	IsReady() bool

	// WindowSize returns the number of samples required before the
	// indicator is ready (its warm-up length).
	WindowSize() int

	// SamplesProcessed returns the number of samples consumed so far.
	SamplesProcessed() int
}

// MultiValue is implemented by composite indicators that expose more than
// one output line (MACD signal/histogram, Bollinger upper/lower bands).
type MultiValue interface {
	Calculator

	// Outputs returns every column name this indicator produces, the
	// primary name first.
	Outputs() []string

	// Values returns the current value per output name. Only meaningful
	// once IsReady reports true.
	Values() map[string]float64
}

// State describes the warm-up lifecycle of an indicator.
type State int

const (
	StateUninitialized State = iota
	StateWarmingUp
	StateReady
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWarmingUp:
		return "warming_up"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// StateOf derives the lifecycle state of a calculator. The transition to
// StateReady happens exactly when the warm-up threshold is reached and is
// never reversed.
func StateOf(c Calculator) State {
	if c.IsReady() {
		return StateReady
	}
	if c.SamplesProcessed() == 0 {
		return StateUninitialized
	}
	return StateWarmingUp
}

// WarmupRemaining returns how many more samples a calculator needs before
// it is ready, zero once ready.
func WarmupRemaining(c Calculator) int {
	if c.IsReady() {
		return 0
	}
	remaining := c.WindowSize() - c.SamplesProcessed()
	if remaining < 0 {
		return 0
	}
	return remaining
}
