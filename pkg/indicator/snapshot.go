package indicator

import "time"

// Value is one indicator cell: a float and whether the indicator had
// completed its warm-up when the cell was produced. Not-ready cells carry a
// zero float and are a valid "no value yet" state, not a fault.
type Value struct {
	Float float64 `json:"value"`
	Ready bool    `json:"ready"`
}

// Snapshot is an immutable view of the latest computed indicator values.
// It is created fresh on every evaluation and safe for any number of
// concurrent readers.
type Snapshot struct {
	AsOf     time.Time        `json:"as_of"`
	Coverage int              `json:"coverage"`
	Values   map[string]Value `json:"values"`
}

// Get returns the value for an output column name.
func (s *Snapshot) Get(name string) (Value, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// Table is the batch-mode result: one row per input sample, one column per
// indicator output. Rows are never dropped; readiness is tracked per cell so
// a long-warm-up column never hides rows from a short one.
type Table struct {
	Timestamps []time.Time        `json:"timestamps"`
	Columns    map[string][]Value `json:"columns"`
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int {
	return len(t.Timestamps)
}

// LastRow returns the final row of the table as a snapshot-shaped value map.
func (t *Table) LastRow() map[string]Value {
	n := len(t.Timestamps)
	if n == 0 {
		return nil
	}
	row := make(map[string]Value, len(t.Columns))
	for name, col := range t.Columns {
		row[name] = col[n-1]
	}
	return row
}

// IndicatorStatus reports one indicator's warm-up progress.
type IndicatorStatus struct {
	State           State `json:"state"`
	WarmupRemaining int   `json:"warmup_remaining"`
}

// MarshalText renders the state for JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
