package window

import (
	"math"
	"testing"
)

func TestRolling_MeanUsesTrueCount(t *testing.T) {
	r, err := NewRolling(5)
	if err != nil {
		t.Fatalf("NewRolling failed: %v", err)
	}

	r.Push(10)
	r.Push(20)
	if r.Count() != 2 {
		t.Errorf("Expected count 2, got %d", r.Count())
	}
	if got := r.Mean(); got != 15 {
		t.Errorf("Partial mean should divide by true count, got %f", got)
	}
}

func TestRolling_Eviction(t *testing.T) {
	r, _ := NewRolling(3)

	for _, x := range []float64{1, 2, 3, 4, 5} {
		r.Push(x)
	}

	if !r.Full() {
		t.Error("Window should be full")
	}
	if got := r.Sum(); got != 12 {
		t.Errorf("Expected sum 12 over last 3 values, got %f", got)
	}
	if got := r.Mean(); got != 4 {
		t.Errorf("Expected mean 4, got %f", got)
	}
	oldest, ok := r.Oldest()
	if !ok || oldest != 3 {
		t.Errorf("Expected oldest 3, got %f (ok=%v)", oldest, ok)
	}
}

func TestRolling_Variance(t *testing.T) {
	r, _ := NewRolling(4)
	for _, x := range []float64{2, 4, 4, 4} {
		r.Push(x)
	}

	// Population variance of {2,4,4,4} is 0.75.
	if got := r.Variance(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Expected variance 0.75, got %f", got)
	}
}

func TestRolling_ConstantInputVarianceNonNegative(t *testing.T) {
	r, _ := NewRolling(10)
	for i := 0; i < 100; i++ {
		r.Push(123.456)
	}

	if got := r.Variance(); got < 0 {
		t.Errorf("Variance must never be negative, got %g", got)
	}
}

func TestRolling_InvalidPeriod(t *testing.T) {
	if _, err := NewRolling(0); err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestRolling_Reset(t *testing.T) {
	r, _ := NewRolling(3)
	r.Push(1)
	r.Push(2)
	r.Reset()

	if r.Count() != 0 || r.Sum() != 0 {
		t.Error("Reset should clear the window")
	}
	if _, ok := r.Oldest(); ok {
		t.Error("Oldest should report empty after reset")
	}
}
