package indicator

import (
	"time"

	"github.com/quantpulse/indicator-engine/internal/models"
)

var testBase = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

// priceSamples builds a minute-spaced sample series from closing prices.
func priceSamples(prices []float64) []*models.Sample {
	samples := make([]*models.Sample, len(prices))
	for i, p := range prices {
		samples[i] = models.NewSample(testBase.Add(time.Duration(i)*time.Minute), p)
	}
	return samples
}

// volumeSamples builds a minute-spaced series with price and volume pairs.
func volumeSamples(prices, volumes []float64) []*models.Sample {
	samples := make([]*models.Sample, len(prices))
	for i, p := range prices {
		samples[i] = models.NewVolumeSample(testBase.Add(time.Duration(i)*time.Minute), p, volumes[i])
	}
	return samples
}

// scenarioPrices is the reference series used across scenario tests.
var scenarioPrices = []float64{10, 12, 11, 13, 15, 14, 16, 18, 17, 19}
