package window

import (
	"math"
	"testing"
)

func TestWilder_SeedIsSimpleAverage(t *testing.T) {
	w, err := NewWilder(3)
	if err != nil {
		t.Fatalf("NewWilder failed: %v", err)
	}

	w.Update(3)
	w.Update(6)
	if w.Primed() {
		t.Error("Should not be primed before period inputs")
	}

	got := w.Update(9)
	if !w.Primed() {
		t.Error("Should be primed after period inputs")
	}
	if got != 6 {
		t.Errorf("Seed should be simple average 6, got %f", got)
	}
}

func TestWilder_RecursiveSmoothing(t *testing.T) {
	w, _ := NewWilder(3)
	w.Update(3)
	w.Update(6)
	w.Update(9) // seed = 6

	got := w.Update(12)
	want := (6.0*2 + 12) / 3
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %f, got %f", want, got)
	}
}

func TestWilder_ZeroInputsStayZero(t *testing.T) {
	w, _ := NewWilder(4)
	for i := 0; i < 20; i++ {
		w.Update(0)
	}
	if got := w.Value(); got != 0 {
		t.Errorf("All-zero input must smooth to exactly 0, got %g", got)
	}
}

func TestWilder_InvalidPeriod(t *testing.T) {
	if _, err := NewWilder(0); err == nil {
		t.Error("Expected error for period < 1")
	}
}
