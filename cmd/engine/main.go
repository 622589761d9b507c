package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/quantpulse/indicator-engine/internal/api"
	"github.com/quantpulse/indicator-engine/internal/config"
	"github.com/quantpulse/indicator-engine/internal/datasource"
	"github.com/quantpulse/indicator-engine/internal/pubsub"
	"github.com/quantpulse/indicator-engine/internal/service"
	"github.com/quantpulse/indicator-engine/pkg/indicator"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting indicator engine",
		logger.Int("port", cfg.API.Port),
		logger.Int("health_port", cfg.API.HealthCheckPort),
		logger.Int("rate_limit_rps", cfg.API.RateLimitRPS),
		logger.String("provider", cfg.MarketData.Provider),
		logger.Any("symbols", cfg.MarketData.Symbols),
	)

	// Initialize evaluation service
	defs := service.DefinitionsFromConfig(cfg.Engine)
	svc, err := service.NewService(defs, cfg.Engine.MaxSamples)
	if err != nil {
		logger.Fatal("Failed to initialize evaluation service",
			logger.ErrorField(err),
		)
	}
	defer svc.Stop()

	logger.Info("Registered indicators", logger.Int("count", len(defs)))

	// Initialize Redis publisher. The engine keeps running without it so a
	// Redis outage never blocks evaluation.
	var publisher *pubsub.SnapshotPublisher
	redisClient, err := pubsub.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, snapshot publishing disabled",
			logger.ErrorField(err),
		)
	} else {
		defer redisClient.Close()
		publisher = pubsub.NewSnapshotPublisher(redisClient,
			pubsub.DefaultSnapshotPublisherConfig(cfg.Redis.StreamName))
	}

	// Initialize API server
	server := api.NewServer(cfg.API, svc)
	hub := server.Hub()

	// Fan each accepted snapshot out to WebSocket clients and Redis
	svc.SetOnSnapshot(func(symbol string, snap *indicator.Snapshot) {
		hub.Broadcast(symbol, snap)
		if publisher != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := publisher.Publish(ctx, symbol, snap); err != nil {
				logger.Error("Failed to publish snapshot",
					logger.ErrorField(err),
					logger.String("symbol", symbol),
				)
			}
		}
	})

	// Initialize market data provider
	factory := datasource.NewFactory()
	provider, err := factory.Create(cfg.MarketData.Provider, datasource.Config{
		BaseURL:      cfg.MarketData.BaseURL,
		APIKey:       cfg.MarketData.APIKey,
		VsCurrency:   cfg.MarketData.VsCurrency,
		LookbackDays: cfg.MarketData.LookbackDays,
		PollInterval: cfg.MarketData.PollInterval,
		HTTPTimeout:  cfg.MarketData.HTTPTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to create market data provider",
			logger.ErrorField(err),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := provider.Connect(ctx); err != nil {
		logger.Fatal("Failed to connect market data provider",
			logger.ErrorField(err),
		)
	}
	defer provider.Close()

	// Backfill each symbol's history before going live
	for _, symbol := range cfg.MarketData.Symbols {
		samples, err := provider.History(ctx, symbol)
		if err != nil {
			logger.Warn("Backfill failed, starting symbol cold",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}
		if _, err := svc.Backfill(symbol, samples); err != nil {
			logger.Warn("Backfill rejected",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
		}
	}

	// Subscribe to live quotes
	quotes, err := provider.Subscribe(ctx, cfg.MarketData.Symbols)
	if err != nil {
		logger.Fatal("Failed to subscribe to market data",
			logger.ErrorField(err),
		)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for quote := range quotes {
			if _, err := svc.ProcessSample(quote.Symbol, quote.Sample); err != nil {
				logger.Debug("Sample rejected",
					logger.String("symbol", quote.Symbol),
					logger.ErrorField(err),
				)
			}
		}
	}()

	// Start API server
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(); err != nil {
			logger.Error("API server failed", logger.ErrorField(err))
		}
	}()

	logger.Info("Indicator engine started")

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down indicator engine")

	cancel()
	provider.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", logger.ErrorField(err))
	}

	wg.Wait()
	logger.Info("Indicator engine stopped")
}
