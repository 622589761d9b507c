package window

// Cumulative tracks a running weighted sum and total weight over the whole
// series, the substrate for session-cumulative indicators such as VWAP.
type Cumulative struct {
	weightedSum float64
	totalWeight float64
	count       int
}

// NewCumulative creates an empty cumulative accumulator.
func NewCumulative() *Cumulative {
	return &Cumulative{}
}

// Add folds in a value with its weight.
func (c *Cumulative) Add(x, weight float64) {
	c.weightedSum += x * weight
	c.totalWeight += weight
	c.count++
}

// WeightedMean returns weightedSum/totalWeight. The second return is false
// while the total weight is exactly zero; callers treat that as not-ready
// rather than dividing by an epsilon.
func (c *Cumulative) WeightedMean() (float64, bool) {
	if c.totalWeight == 0 {
		return 0, false
	}
	return c.weightedSum / c.totalWeight, true
}

// Count returns the number of observations folded in.
func (c *Cumulative) Count() int {
	return c.count
}

// Reset clears the accumulator.
func (c *Cumulative) Reset() {
	c.weightedSum = 0
	c.totalWeight = 0
	c.count = 0
}
