package indicator

import (
	"fmt"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/quantpulse/indicator-engine/internal/models"
)

// TechanCalculator wraps a techan indicator behind the Calculator interface.
// It serves as an alternative backend and as a cross-check for the native
// calculators. Samples carry a single price, so each one becomes a flat
// candle (open = high = low = close). The candle interval must not exceed
// the sample spacing, or techan rejects the overlapping periods.
type TechanCalculator struct {
	name      string
	build     func(*techan.TimeSeries) techan.Indicator
	series    *techan.TimeSeries
	indicator techan.Indicator
	period    int
	interval  time.Duration
	ready     bool
	processed int
}

// NewTechanCalculator wraps an indicator built by the given constructor. The
// constructor is kept so Reset can rebuild the series and indicator together.
func NewTechanCalculator(name string, build func(*techan.TimeSeries) techan.Indicator, period int, interval time.Duration) *TechanCalculator {
	series := techan.NewTimeSeries()
	return &TechanCalculator{
		name:      name,
		build:     build,
		series:    series,
		indicator: build(series),
		period:    period,
		interval:  interval,
	}
}

// NewTechanSMA creates a techan-backed SMA calculator.
func NewTechanSMA(period int, interval time.Duration) (*TechanCalculator, error) {
	if period < 1 {
		return nil, fmt.Errorf("SMA period must be at least 1, got %d", period)
	}
	build := func(s *techan.TimeSeries) techan.Indicator {
		return techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(s), period)
	}
	return NewTechanCalculator(fmt.Sprintf("sma_%d", period), build, period, interval), nil
}

// NewTechanEMA creates a techan-backed EMA calculator.
func NewTechanEMA(span int, interval time.Duration) (*TechanCalculator, error) {
	if span < 1 {
		return nil, fmt.Errorf("EMA span must be at least 1, got %d", span)
	}
	build := func(s *techan.TimeSeries) techan.Indicator {
		return techan.NewEMAIndicator(techan.NewClosePriceIndicator(s), span)
	}
	return NewTechanCalculator(fmt.Sprintf("ema_%d", span), build, 1, interval), nil
}

// NewTechanRSI creates a techan-backed RSI calculator.
func NewTechanRSI(period int, interval time.Duration) (*TechanCalculator, error) {
	if period < 2 {
		return nil, fmt.Errorf("RSI period must be at least 2, got %d", period)
	}
	build := func(s *techan.TimeSeries) techan.Indicator {
		return techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(s), period)
	}
	return NewTechanCalculator(fmt.Sprintf("rsi_%d", period), build, period+1, interval), nil
}

// Name returns the indicator name
func (t *TechanCalculator) Name() string {
	return t.name
}

// Update converts the sample into a flat candle and recalculates
func (t *TechanCalculator) Update(sample *models.Sample) (float64, error) {
	if sample == nil {
		return 0, fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return 0, err
	}

	candle := techan.NewCandle(techan.NewTimePeriod(sample.Timestamp, t.interval))
	price := big.NewDecimal(sample.Price)
	candle.OpenPrice = price
	candle.MaxPrice = price
	candle.MinPrice = price
	candle.ClosePrice = price
	candle.Volume = big.NewDecimal(sample.VolumeOrZero())

	if !t.series.AddCandle(candle) {
		return 0, fmt.Errorf("%w: candle at %s overlaps previous period", models.ErrInvalidSample, sample.Timestamp)
	}
	t.processed++

	if t.processed >= t.period {
		t.ready = true
	}
	if !t.ready {
		return 0, nil
	}
	return t.indicator.Calculate(t.series.LastIndex()).Float(), nil
}

// Value returns the current indicator value
func (t *TechanCalculator) Value() (float64, error) {
	if !t.ready {
		return 0, fmt.Errorf("%w: needs at least %d samples", models.ErrNotReady, t.period)
	}
	return t.indicator.Calculate(t.series.LastIndex()).Float(), nil
}

// Reset rebuilds the series and the indicator from scratch.
func (t *TechanCalculator) Reset() {
	t.series = techan.NewTimeSeries()
	t.indicator = t.build(t.series)
	t.ready = false
	t.processed = 0
}

// IsReady returns true if the indicator has enough data
func (t *TechanCalculator) IsReady() bool {
	return t.ready
}

// WindowSize returns the number of samples required for this indicator
func (t *TechanCalculator) WindowSize() int {
	return t.period
}

// SamplesProcessed returns the number of samples processed so far
func (t *TechanCalculator) SamplesProcessed() int {
	return t.processed
}
