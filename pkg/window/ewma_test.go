package window

import (
	"math"
	"testing"
)

func TestEWMA_SeedsWithFirstValue(t *testing.T) {
	e, err := NewEWMA(50)
	if err != nil {
		t.Fatalf("NewEWMA failed: %v", err)
	}

	if got := e.Update(42.5); got != 42.5 {
		t.Errorf("First value must seed directly, got %f", got)
	}
	if !e.Seeded() {
		t.Error("Expected seeded after first update")
	}
}

func TestEWMA_Recurrence(t *testing.T) {
	e, _ := NewEWMA(9)
	alpha := 2.0 / 10.0

	e.Update(10)
	got := e.Update(20)
	want := alpha*20 + (1-alpha)*10
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %f, got %f", want, got)
	}
}

func TestEWMA_IncrementalEqualsReplay(t *testing.T) {
	prices := []float64{10, 12, 11, 13, 15, 14, 16, 18, 17, 19}

	incremental, _ := NewEWMA(5)
	var last float64
	for _, p := range prices {
		last = incremental.Update(p)
	}

	replay, _ := NewEWMA(5)
	var replayed float64
	for _, p := range prices {
		replayed = replay.Update(p)
	}

	if last != replayed {
		t.Errorf("Streaming and replayed EWMA diverged: %f vs %f", last, replayed)
	}
}

func TestEWMA_InvalidSpan(t *testing.T) {
	if _, err := NewEWMA(0); err == nil {
		t.Error("Expected error for span < 1")
	}
}
