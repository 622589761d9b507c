package indicator

import (
	"errors"
	"testing"

	"github.com/quantpulse/indicator-engine/internal/models"
)

func TestRSI_AllGainsYields100(t *testing.T) {
	rsi, err := NewRSI(14)
	if err != nil {
		t.Fatalf("Failed to create RSI: %v", err)
	}

	// Strictly increasing: zero losses, so RSI is exactly 100 once ready.
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	for _, sample := range priceSamples(prices) {
		_, _ = rsi.Update(sample)
	}

	val, err := rsi.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != 100.0 {
		t.Errorf("Expected RSI exactly 100 for all gains, got %f", val)
	}
}

func TestRSI_ConstantPriceYields50(t *testing.T) {
	rsi, _ := NewRSI(14)

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 250.0
	}
	for _, sample := range priceSamples(prices) {
		_, _ = rsi.Update(sample)
	}

	val, err := rsi.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != 50.0 {
		t.Errorf("Expected RSI exactly 50 for constant price, got %f", val)
	}
}

func TestRSI_WarmupAndUpwardDrift(t *testing.T) {
	rsi, _ := NewRSI(3)
	samples := priceSamples(scenarioPrices)

	// Warm-up is period+1 samples: not ready through index 2.
	for i := 0; i < 3; i++ {
		_, _ = rsi.Update(samples[i])
		if rsi.IsReady() {
			t.Errorf("RSI should not be ready after %d samples", i+1)
		}
	}

	val, err := rsi.Update(samples[3])
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !rsi.IsReady() {
		t.Error("RSI should be ready at index 3")
	}
	if val <= 50 {
		t.Errorf("Net upward drift should give RSI > 50, got %f", val)
	}
}

func TestRSI_ReadinessIsMonotonic(t *testing.T) {
	rsi, _ := NewRSI(3)
	samples := priceSamples(scenarioPrices)
	for _, sample := range samples {
		_, _ = rsi.Update(sample)
	}
	if !rsi.IsReady() {
		t.Fatal("RSI should be ready")
	}

	// Degenerate constant continuation must not revert readiness.
	for i := 0; i < 10; i++ {
		_, _ = rsi.Update(models.NewSample(samples[len(samples)-1].Timestamp, 19))
		if !rsi.IsReady() {
			t.Fatal("Readiness must never revert")
		}
	}
}

func TestRSI_NotReadyError(t *testing.T) {
	rsi, _ := NewRSI(14)
	_, err := rsi.Value()
	if !errors.Is(err, models.ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestRSI_InvalidPeriod(t *testing.T) {
	if _, err := NewRSI(1); err == nil {
		t.Error("Expected error for period < 2")
	}
}
