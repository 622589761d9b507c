package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/quantpulse/indicator-engine/internal/models"
)

func TestVWAP_WeightedAverage(t *testing.T) {
	vwap, err := NewVWAP()
	if err != nil {
		t.Fatalf("Failed to create VWAP: %v", err)
	}

	prices := []float64{100, 110, 105}
	volumes := []float64{10, 30, 20}
	for _, sample := range volumeSamples(prices, volumes) {
		if _, err := vwap.Update(sample); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	val, err := vwap.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	want := (100.0*10 + 110.0*30 + 105.0*20) / 60.0
	if math.Abs(val-want) > 1e-12 {
		t.Errorf("Expected VWAP %f, got %f", want, val)
	}
}

func TestVWAP_ZeroVolumeStaysNotReady(t *testing.T) {
	vwap, _ := NewVWAP()

	// No volume observed yet: the zero denominator is a not-ready state,
	// never an epsilon-guarded division.
	for _, sample := range priceSamples([]float64{100, 101, 102}) {
		val, err := vwap.Update(sample)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if val != 0 {
			t.Errorf("Expected 0 while no volume seen, got %f", val)
		}
	}

	if vwap.IsReady() {
		t.Error("VWAP must not be ready before any volume")
	}
	if _, err := vwap.Value(); !errors.Is(err, models.ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}

	// First volume observation flips readiness, permanently.
	if _, err := vwap.Update(models.NewVolumeSample(testBase, 103, 10)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !vwap.IsReady() {
		t.Error("VWAP should be ready once volume is observed")
	}
}
