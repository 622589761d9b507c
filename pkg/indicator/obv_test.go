package indicator

import (
	"testing"
)

func TestOBV_CumulativeSignedVolume(t *testing.T) {
	obv, err := NewOBV()
	if err != nil {
		t.Fatalf("Failed to create OBV: %v", err)
	}

	prices := []float64{10, 12, 11, 11, 13}
	volumes := []float64{100, 200, 150, 80, 50}
	samples := volumeSamples(prices, volumes)

	expected := []float64{
		100,             // seeds with first volume
		300,             // up move adds
		150,             // down move subtracts
		150,             // unchanged price leaves total
		200,             // up move adds
	}

	for i, sample := range samples {
		val, err := obv.Update(sample)
		if err != nil {
			t.Fatalf("Update %d failed: %v", i, err)
		}
		if val != expected[i] {
			t.Errorf("Step %d: expected OBV %f, got %f", i, expected[i], val)
		}
	}
}

func TestOBV_MissingVolumeContributesNothing(t *testing.T) {
	obv, _ := NewOBV()
	samples := priceSamples([]float64{10, 12, 14})
	for _, sample := range samples {
		_, _ = obv.Update(sample)
	}

	val, err := obv.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != 0 {
		t.Errorf("Price-only samples must leave OBV at 0, got %f", val)
	}
	if !obv.IsReady() {
		t.Error("OBV is defined from the first sample")
	}
}
