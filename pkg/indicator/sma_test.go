package indicator

import (
	"errors"
	"testing"

	"github.com/quantpulse/indicator-engine/internal/models"
)

func TestSMA_NewSMA(t *testing.T) {
	sma, err := NewSMA(20, MinPeriodsStrict)
	if err != nil {
		t.Fatalf("Failed to create SMA: %v", err)
	}
	if sma.Name() != "sma_20" {
		t.Errorf("Expected name 'sma_20', got '%s'", sma.Name())
	}

	if _, err := NewSMA(0, MinPeriodsStrict); err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestSMA_WarmupScenario(t *testing.T) {
	sma, _ := NewSMA(3, MinPeriodsStrict)
	samples := priceSamples(scenarioPrices)

	for i, sample := range samples[:2] {
		val, err := sma.Update(sample)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if sma.IsReady() {
			t.Errorf("SMA should not be ready after %d samples", i+1)
		}
		if val != 0 {
			t.Errorf("Expected 0 before warm-up, got %f", val)
		}
	}

	// First ready value at index 2: (10+12+11)/3 = 11.0
	val, err := sma.Update(samples[2])
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !sma.IsReady() {
		t.Error("SMA should be ready after 3 samples")
	}
	if val != 11.0 {
		t.Errorf("Expected SMA 11.0, got %f", val)
	}
}

func TestSMA_PartialPolicy(t *testing.T) {
	sma, _ := NewSMA(5, MinPeriodsPartial)
	samples := priceSamples([]float64{100, 102})

	val, err := sma.Update(samples[0])
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !sma.IsReady() {
		t.Error("Partial-policy SMA should be ready from the first sample")
	}
	if val != 100 {
		t.Errorf("Expected 100, got %f", val)
	}

	// Division uses the true count, never the period.
	val, _ = sma.Update(samples[1])
	if val != 101 {
		t.Errorf("Expected partial mean 101, got %f", val)
	}
}

func TestSMA_RollingWindow(t *testing.T) {
	sma, _ := NewSMA(5, MinPeriodsStrict)
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109}
	for _, sample := range priceSamples(prices) {
		if _, err := sma.Update(sample); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	val, err := sma.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	expected := (105.0 + 106.0 + 107.0 + 108.0 + 109.0) / 5.0
	if val != expected {
		t.Errorf("Expected SMA %f, got %f", expected, val)
	}
}

func TestSMA_NotReadyError(t *testing.T) {
	sma, _ := NewSMA(5, MinPeriodsStrict)

	_, err := sma.Value()
	if err == nil {
		t.Fatal("Expected not-ready error")
	}
	if !errors.Is(err, models.ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestSMA_InvalidSampleLeavesStateUnchanged(t *testing.T) {
	sma, _ := NewSMA(2, MinPeriodsStrict)
	samples := priceSamples([]float64{100, 102})
	for _, s := range samples {
		_, _ = sma.Update(s)
	}

	before, _ := sma.Value()
	_, err := sma.Update(models.NewSample(testBase, -5))
	if !errors.Is(err, models.ErrInvalidSample) {
		t.Fatalf("Expected ErrInvalidSample, got %v", err)
	}

	after, _ := sma.Value()
	if before != after {
		t.Errorf("Rejected sample mutated state: %f -> %f", before, after)
	}
	if sma.SamplesProcessed() != 2 {
		t.Errorf("Rejected sample was counted: %d", sma.SamplesProcessed())
	}
}

func TestSMA_Reset(t *testing.T) {
	sma, _ := NewSMA(3, MinPeriodsStrict)
	for _, sample := range priceSamples(scenarioPrices) {
		_, _ = sma.Update(sample)
	}

	sma.Reset()

	if sma.IsReady() {
		t.Error("SMA should not be ready after reset")
	}
	if sma.SamplesProcessed() != 0 {
		t.Error("SamplesProcessed should be 0 after reset")
	}
}
