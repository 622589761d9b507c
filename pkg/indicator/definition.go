package indicator

import (
	"fmt"
)

// Kind identifies an indicator family.
type Kind string

const (
	KindSMA       Kind = "sma"
	KindEMA       Kind = "ema"
	KindRSI       Kind = "rsi"
	KindMACD      Kind = "macd"
	KindBBands    Kind = "bbands"
	KindATR       Kind = "atr"
	KindWilliamsR Kind = "wr"
	KindOBV       Kind = "obv"
	KindVWAP      Kind = "vwap"
	KindROC       Kind = "roc"
	KindMomentum  Kind = "mom"
)

// MinPeriodsPolicy controls whether a windowed indicator may emit values
// over a partially filled window during warm-up.
type MinPeriodsPolicy int

const (
	// MinPeriodsStrict holds the indicator in warming_up until a full
	// window has been consumed. This is the default.
	MinPeriodsStrict MinPeriodsPolicy = iota

	// MinPeriodsPartial emits values as soon as one sample is available,
	// averaging over the true count rather than the period.
	MinPeriodsPartial
)

// Definition declares one indicator to instantiate: its kind, parameters
// and minimum-periods policy. Definitions are immutable once registered
// with an engine.
type Definition struct {
	Kind         Kind             `json:"kind"`
	Period       int              `json:"period,omitempty"`
	FastPeriod   int              `json:"fast_period,omitempty"`
	SlowPeriod   int              `json:"slow_period,omitempty"`
	SignalPeriod int              `json:"signal_period,omitempty"`
	Multiplier   float64          `json:"multiplier,omitempty"`
	MinPeriods   MinPeriodsPolicy `json:"min_periods,omitempty"`
}

// Name derives the canonical indicator name from the definition,
// e.g. "sma_20", "macd_12_26_9", "bb_20_2.0".
func (d Definition) Name() string {
	switch d.Kind {
	case KindMACD:
		return fmt.Sprintf("macd_%d_%d_%d", d.FastPeriod, d.SlowPeriod, d.SignalPeriod)
	case KindBBands:
		return fmt.Sprintf("bb_%d_%.1f", d.Period, d.Multiplier)
	case KindOBV:
		return "obv"
	case KindVWAP:
		return "vwap"
	default:
		return fmt.Sprintf("%s_%d", d.Kind, d.Period)
	}
}

// Build constructs a fresh calculator for this definition. Every call
// returns an independent instance; accumulator state is never shared
// between instances even when parameters coincide.
func (d Definition) Build() (Calculator, error) {
	if d.MinPeriods == MinPeriodsPartial {
		switch d.Kind {
		case KindSMA, KindBBands, KindWilliamsR:
			// supported below
		default:
			return nil, fmt.Errorf("partial min-periods policy not supported for %q", d.Kind)
		}
	}

	switch d.Kind {
	case KindSMA:
		return NewSMA(d.Period, d.MinPeriods)
	case KindEMA:
		return NewEMA(d.Period)
	case KindRSI:
		return NewRSI(d.Period)
	case KindMACD:
		return NewMACD(d.FastPeriod, d.SlowPeriod, d.SignalPeriod)
	case KindBBands:
		return NewBollingerBands(d.Period, d.Multiplier, d.MinPeriods)
	case KindATR:
		return NewATR(d.Period)
	case KindWilliamsR:
		return NewWilliamsR(d.Period, d.MinPeriods)
	case KindOBV:
		return NewOBV()
	case KindVWAP:
		return NewVWAP()
	case KindROC:
		return NewROC(d.Period)
	case KindMomentum:
		return NewMomentum(d.Period)
	default:
		return nil, fmt.Errorf("unknown indicator kind %q", d.Kind)
	}
}

// Outputs returns every column name the built calculator will produce.
func (d Definition) Outputs() []string {
	name := d.Name()
	switch d.Kind {
	case KindMACD:
		return []string{name, name + "_signal", name + "_hist"}
	case KindBBands:
		return []string{name, name + "_upper", name + "_lower"}
	default:
		return []string{name}
	}
}
