package models

import (
	"fmt"
	"math"
	"time"
)

// Sample represents a single time-stamped price observation.
// Volume is optional; providers that only deliver prices leave it nil.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    *float64  `json:"volume,omitempty"`
}

// NewSample creates a sample without volume.
func NewSample(ts time.Time, price float64) *Sample {
	return &Sample{Timestamp: ts, Price: price}
}

// NewVolumeSample creates a sample carrying a volume observation.
func NewVolumeSample(ts time.Time, price, volume float64) *Sample {
	return &Sample{Timestamp: ts, Price: price, Volume: &volume}
}

// VolumeOrZero returns the volume if present, zero otherwise.
func (s *Sample) VolumeOrZero() float64 {
	if s.Volume == nil {
		return 0
	}
	return *s.Volume
}

// Validate validates a Sample. A price must be a finite non-negative real;
// a volume, when present, must be too.
func (s *Sample) Validate() error {
	if s.Timestamp.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrInvalidSample)
	}
	if math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
		return fmt.Errorf("%w: non-finite price", ErrInvalidSample)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: negative price %f", ErrInvalidSample, s.Price)
	}
	if s.Volume != nil {
		v := *s.Volume
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite volume", ErrInvalidSample)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative volume %f", ErrInvalidSample, v)
		}
	}
	return nil
}
