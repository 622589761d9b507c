package window

import "fmt"

type extremum struct {
	index int
	value float64
}

// MinMax maintains the rolling maximum and minimum over the last `period`
// values using monotonic deques, so each update is amortized O(1) regardless
// of the window size. Every value is pushed and popped at most once per deque.
type MinMax struct {
	period int
	seen   int
	maxDq  []extremum // values strictly decreasing front to back
	minDq  []extremum // values strictly increasing front to back
}

// NewMinMax creates a rolling extremum accumulator over the given period.
func NewMinMax(period int) (*MinMax, error) {
	if period < 1 {
		return nil, fmt.Errorf("minmax period must be at least 1, got %d", period)
	}
	return &MinMax{
		period: period,
		maxDq:  make([]extremum, 0, period),
		minDq:  make([]extremum, 0, period),
	}, nil
}

// Push adds a value to the window.
func (m *MinMax) Push(x float64) {
	idx := m.seen
	m.seen++

	for len(m.maxDq) > 0 && m.maxDq[len(m.maxDq)-1].value <= x {
		m.maxDq = m.maxDq[:len(m.maxDq)-1]
	}
	m.maxDq = append(m.maxDq, extremum{index: idx, value: x})

	for len(m.minDq) > 0 && m.minDq[len(m.minDq)-1].value >= x {
		m.minDq = m.minDq[:len(m.minDq)-1]
	}
	m.minDq = append(m.minDq, extremum{index: idx, value: x})

	// Expire entries that fell out of the window.
	cutoff := idx - m.period
	if m.maxDq[0].index <= cutoff {
		m.maxDq = m.maxDq[1:]
	}
	if m.minDq[0].index <= cutoff {
		m.minDq = m.minDq[1:]
	}
}

// Max returns the maximum over the current window.
func (m *MinMax) Max() float64 {
	if len(m.maxDq) == 0 {
		return 0
	}
	return m.maxDq[0].value
}

// Min returns the minimum over the current window.
func (m *MinMax) Min() float64 {
	if len(m.minDq) == 0 {
		return 0
	}
	return m.minDq[0].value
}

// Count returns the number of values inside the window.
func (m *MinMax) Count() int {
	if m.seen < m.period {
		return m.seen
	}
	return m.period
}

// Full reports whether the window spans period values.
func (m *MinMax) Full() bool {
	return m.seen >= m.period
}

// Reset clears the accumulator.
func (m *MinMax) Reset() {
	m.seen = 0
	m.maxDq = m.maxDq[:0]
	m.minDq = m.minDq[:0]
}
