package indicator

import (
	"fmt"

	"github.com/quantpulse/indicator-engine/internal/models"
)

// Series is the append-only ordered buffer of samples an engine reads from.
// Samples are never mutated or reordered after insertion; timestamps must be
// non-decreasing, with duplicates kept in arrival order.
type Series struct {
	samples []*models.Sample
	maxSize int // 0 means unbounded
}

// NewSeries creates an empty unbounded series.
func NewSeries() *Series {
	return &Series{}
}

// NewCappedSeries creates a series that retains at most maxSize samples,
// dropping only from the oldest end.
func NewCappedSeries(maxSize int) *Series {
	return &Series{maxSize: maxSize}
}

// Append adds a sample. It fails with models.ErrOutOfOrderSample when the
// timestamp precedes the last stored one; the series is left unchanged.
func (s *Series) Append(sample *models.Sample) error {
	if sample == nil {
		return fmt.Errorf("%w: nil sample", models.ErrInvalidSample)
	}
	if err := sample.Validate(); err != nil {
		return err
	}

	if n := len(s.samples); n > 0 && sample.Timestamp.Before(s.samples[n-1].Timestamp) {
		return fmt.Errorf("%w: %s precedes %s",
			models.ErrOutOfOrderSample, sample.Timestamp.Format("2006-01-02T15:04:05.999Z07:00"),
			s.samples[n-1].Timestamp.Format("2006-01-02T15:04:05.999Z07:00"))
	}

	s.samples = append(s.samples, sample)
	if s.maxSize > 0 && len(s.samples) > s.maxSize {
		copy(s.samples, s.samples[1:])
		s.samples[len(s.samples)-1] = nil
		s.samples = s.samples[:len(s.samples)-1]
	}
	return nil
}

// Len returns the current sample count.
func (s *Series) Len() int {
	return len(s.samples)
}

// Last returns a borrowed view of the most recent n samples. Callers must
// not mutate the returned slice or its samples.
func (s *Series) Last(n int) []*models.Sample {
	if n <= 0 {
		return nil
	}
	if n > len(s.samples) {
		n = len(s.samples)
	}
	return s.samples[len(s.samples)-n:]
}

// All returns a borrowed view of every stored sample.
func (s *Series) All() []*models.Sample {
	return s.samples
}

// LastSample returns the most recent sample, or false when empty.
func (s *Series) LastSample() (*models.Sample, bool) {
	if len(s.samples) == 0 {
		return nil, false
	}
	return s.samples[len(s.samples)-1], true
}
