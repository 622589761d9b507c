package indicator

import (
	"fmt"
	"time"

	"github.com/quantpulse/indicator-engine/internal/models"
)

// Engine drives a set of indicator calculators over an append-only sample
// series. It supports two evaluation modes that are numerically equivalent:
// EvaluateIncremental consumes one sample at a time and returns the next
// snapshot, EvaluateBatch replays a whole series into a table.
//
// An engine instance is single-threaded by design: it must be owned by one
// logical task at a time. Snapshots it hands out are immutable and safe to
// share.
type Engine struct {
	defs     []Definition
	registry *Registry
	series   *Series
	consumed int
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	maxSamples int
}

// WithMaxSamples caps the series buffer at n samples, dropping only from the
// oldest end. The cap must cover every indicator's window so no accumulator
// ever depends on a dropped sample; NewEngine rejects a smaller cap.
func WithMaxSamples(n int) Option {
	return func(c *engineConfig) {
		c.maxSamples = n
	}
}

// NewEngine builds an engine from a list of indicator definitions. The set
// and its parameters are immutable for the lifetime of the instance.
// Definitions deriving the same name fail with models.ErrDuplicateIndicator.
func NewEngine(defs []Definition, opts ...Option) (*Engine, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("engine requires at least one indicator definition")
	}

	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	registry := NewRegistry()
	maxWindow := 0
	for _, def := range defs {
		calc, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("build %q: %w", def.Name(), err)
		}
		if err := registry.Register(calc); err != nil {
			return nil, err
		}
		if w := calc.WindowSize(); w > maxWindow {
			maxWindow = w
		}
	}

	if cfg.maxSamples > 0 && cfg.maxSamples < maxWindow {
		return nil, fmt.Errorf("max samples %d is below the longest indicator window %d", cfg.maxSamples, maxWindow)
	}

	series := NewSeries()
	if cfg.maxSamples > 0 {
		series = NewCappedSeries(cfg.maxSamples)
	}

	stored := make([]Definition, len(defs))
	copy(stored, defs)

	return &Engine{
		defs:     stored,
		registry: registry,
		series:   series,
	}, nil
}

// EvaluateIncremental appends a sample and updates every calculator exactly
// once, returning the resulting snapshot. On a malformed or out-of-order
// sample the call fails and no state changes; callers discard the sample and
// continue with the next one.
func (e *Engine) EvaluateIncremental(sample *models.Sample) (*Snapshot, error) {
	if err := e.series.Append(sample); err != nil {
		return nil, err
	}

	for _, calc := range e.registry.All() {
		// The sample already passed validation, so Update cannot fail
		// here; the error is still surfaced rather than swallowed.
		if _, err := calc.Update(sample); err != nil {
			return nil, fmt.Errorf("update %q: %w", calc.Name(), err)
		}
	}
	e.consumed++

	return e.snapshot(), nil
}

func (e *Engine) snapshot() *Snapshot {
	last, _ := e.series.LastSample()
	snap := &Snapshot{
		Coverage: e.consumed,
		Values:   make(map[string]Value),
	}
	if last != nil {
		snap.AsOf = last.Timestamp
	}

	for _, calc := range e.registry.All() {
		collectValues(calc, func(name string, v Value) {
			snap.Values[name] = v
		})
	}
	return snap
}

// collectValues emits every output cell a calculator currently produces.
func collectValues(calc Calculator, emit func(string, Value)) {
	mv, multi := calc.(MultiValue)

	if !calc.IsReady() {
		if multi {
			for _, name := range mv.Outputs() {
				emit(name, Value{})
			}
		} else {
			emit(calc.Name(), Value{})
		}
		return
	}

	if multi {
		vals := mv.Values()
		for _, name := range mv.Outputs() {
			emit(name, Value{Float: vals[name], Ready: true})
		}
		return
	}

	v, err := calc.Value()
	if err != nil {
		emit(calc.Name(), Value{})
		return
	}
	emit(calc.Name(), Value{Float: v, Ready: true})
}

// EvaluateBatch runs every registered indicator across the given series from
// fresh accumulator state and returns the full table. The engine's streaming
// state is untouched. Rows before a column's warm-up are marked not-ready;
// no row is ever dropped because another column is still warming up.
func (e *Engine) EvaluateBatch(samples []*models.Sample) (*Table, error) {
	calcs := make([]Calculator, 0, len(e.defs))
	outputs := make([]string, 0, len(e.defs))
	for _, def := range e.defs {
		calc, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("build %q: %w", def.Name(), err)
		}
		calcs = append(calcs, calc)
		outputs = append(outputs, def.Outputs()...)
	}

	table := &Table{
		Timestamps: make([]time.Time, 0, len(samples)),
		Columns:    make(map[string][]Value, len(outputs)),
	}
	for _, name := range outputs {
		table.Columns[name] = make([]Value, 0, len(samples))
	}

	series := NewSeries()
	for i, sample := range samples {
		if err := series.Append(sample); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		for _, calc := range calcs {
			if _, err := calc.Update(sample); err != nil {
				return nil, fmt.Errorf("sample %d: update %q: %w", i, calc.Name(), err)
			}
		}

		table.Timestamps = append(table.Timestamps, sample.Timestamp)
		for _, calc := range calcs {
			collectValues(calc, func(name string, v Value) {
				table.Columns[name] = append(table.Columns[name], v)
			})
		}
	}

	return table, nil
}

// Status reports each indicator's lifecycle state and remaining warm-up,
// keyed by primary indicator name.
func (e *Engine) Status() map[string]IndicatorStatus {
	status := make(map[string]IndicatorStatus, e.registry.Len())
	for _, calc := range e.registry.All() {
		status[calc.Name()] = IndicatorStatus{
			State:           StateOf(calc),
			WarmupRemaining: WarmupRemaining(calc),
		}
	}
	return status
}

// Snapshot returns the current snapshot without consuming a sample.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot()
}

// Len returns the number of samples currently held in the series buffer.
func (e *Engine) Len() int {
	return e.series.Len()
}

// Consumed returns the total number of samples consumed, independent of any
// buffer cap.
func (e *Engine) Consumed() int {
	return e.consumed
}

// LastSamples returns a borrowed view of the most recent n buffered samples.
func (e *Engine) LastSamples(n int) []*models.Sample {
	return e.series.Last(n)
}

// Definitions returns a copy of the engine's indicator definitions.
func (e *Engine) Definitions() []Definition {
	defs := make([]Definition, len(e.defs))
	copy(defs, e.defs)
	return defs
}
