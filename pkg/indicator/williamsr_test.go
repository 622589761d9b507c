package indicator

import (
	"math"
	"testing"
)

func TestWilliamsR_Basic(t *testing.T) {
	wr, err := NewWilliamsR(3, MinPeriodsStrict)
	if err != nil {
		t.Fatalf("Failed to create Williams %%R: %v", err)
	}

	samples := priceSamples(scenarioPrices)
	for i := 0; i < 2; i++ {
		_, _ = wr.Update(samples[i])
		if wr.IsReady() {
			t.Errorf("Should not be ready after %d samples", i+1)
		}
	}

	val, err := wr.Update(samples[2])
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	// Window {10,12,11}: %R = -100*(12-11)/(12-10) = -50.
	if math.Abs(val-(-50)) > 1e-12 {
		t.Errorf("Expected -50, got %f", val)
	}
}

func TestWilliamsR_BoundsAtExtremes(t *testing.T) {
	wr, _ := NewWilliamsR(3, MinPeriodsStrict)
	samples := priceSamples([]float64{10, 11, 12})
	var val float64
	for _, sample := range samples {
		val, _ = wr.Update(sample)
	}
	// Close at the window high: %R = 0.
	if val != 0 {
		t.Errorf("Close at high should give 0, got %f", val)
	}

	wr.Reset()
	var low float64
	for _, sample := range priceSamples([]float64{12, 11, 10}) {
		low, _ = wr.Update(sample)
	}
	// Close at the window low: %R = -100.
	if low != -100 {
		t.Errorf("Close at low should give -100, got %f", low)
	}
}

func TestWilliamsR_FlatWindowIsNeutral(t *testing.T) {
	wr, _ := NewWilliamsR(4, MinPeriodsStrict)
	for _, sample := range priceSamples([]float64{5, 5, 5, 5, 5}) {
		_, _ = wr.Update(sample)
	}

	val, err := wr.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != -50 {
		t.Errorf("Flat window must give the neutral -50, got %f", val)
	}
}
