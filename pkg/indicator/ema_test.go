package indicator

import (
	"testing"

	"github.com/quantpulse/indicator-engine/internal/models"
)

func TestEMA_SeedsWithFirstSample(t *testing.T) {
	ema, err := NewEMA(50)
	if err != nil {
		t.Fatalf("Failed to create EMA: %v", err)
	}

	val, err := ema.Update(models.NewSample(testBase, 104.25))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if val != 104.25 {
		t.Errorf("Single-sample EMA must equal that price exactly, got %f", val)
	}
	if !ema.IsReady() {
		t.Error("EMA should be ready after 1 sample")
	}
}

func TestEMA_Recurrence(t *testing.T) {
	ema, _ := NewEMA(9)
	samples := priceSamples([]float64{10, 20})

	_, _ = ema.Update(samples[0])
	val, _ := ema.Update(samples[1])

	alpha := 2.0 / 10.0
	want := alpha*20 + (1-alpha)*10
	if val != want {
		t.Errorf("Expected %f, got %f", want, val)
	}
}

func TestEMA_StreamingSafe(t *testing.T) {
	streaming, _ := NewEMA(12)
	var last float64
	for _, sample := range priceSamples(scenarioPrices) {
		last, _ = streaming.Update(sample)
	}

	replayed, _ := NewEMA(12)
	var replay float64
	for _, sample := range priceSamples(scenarioPrices) {
		replay, _ = replayed.Update(sample)
	}

	if last != replay {
		t.Errorf("Incremental and replayed EMA diverged: %f vs %f", last, replay)
	}
}

func TestEMA_InvalidSpan(t *testing.T) {
	if _, err := NewEMA(0); err == nil {
		t.Error("Expected error for span < 1")
	}
}
