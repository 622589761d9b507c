package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quantpulse/indicator-engine/internal/config"
	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/internal/service"
	"github.com/quantpulse/indicator-engine/pkg/indicator"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

// replay evaluates a recorded sample file in batch mode and prints the
// resulting indicator table as JSON.

type fileSample struct {
	Timestamp int64    `json:"timestamp"` // unix milliseconds
	Price     float64  `json:"price"`
	Volume    *float64 `json:"volume,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "path to a JSON array of samples")
	outputPath := flag.String("output", "", "path to write the table JSON (default stdout)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -input samples.json [-output table.json]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	samples, err := readSamples(*inputPath)
	if err != nil {
		logger.Fatal("Failed to read samples", logger.ErrorField(err))
	}

	logger.Info("Replaying samples",
		logger.String("input", *inputPath),
		logger.Int("count", len(samples)),
	)

	engine, err := indicator.NewEngine(service.DefinitionsFromConfig(cfg.Engine))
	if err != nil {
		logger.Fatal("Failed to build engine", logger.ErrorField(err))
	}

	table, err := engine.EvaluateBatch(samples)
	if err != nil {
		logger.Fatal("Batch evaluation failed", logger.ErrorField(err))
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			logger.Fatal("Failed to create output file", logger.ErrorField(err))
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(table); err != nil {
		logger.Fatal("Failed to write table", logger.ErrorField(err))
	}

	logger.Info("Replay complete", logger.Int("rows", table.Rows()))
}

func readSamples(path string) ([]*models.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []fileSample
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	samples := make([]*models.Sample, 0, len(raw))
	for _, fs := range raw {
		sample := models.NewSample(time.UnixMilli(fs.Timestamp).UTC(), fs.Price)
		if fs.Volume != nil {
			sample.Volume = fs.Volume
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
