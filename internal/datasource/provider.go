package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/quantpulse/indicator-engine/internal/models"
)

var (
	// ErrProviderNotConnected is returned when operations are attempted on a disconnected provider
	ErrProviderNotConnected = errors.New("provider is not connected")
	// ErrProviderAlreadyConnected is returned when attempting to connect an already connected provider
	ErrProviderAlreadyConnected = errors.New("provider is already connected")
)

// Quote is one symbol-tagged sample emitted by a streaming subscription.
type Quote struct {
	Symbol string
	Sample *models.Sample
}

// Provider defines the interface for market data providers
type Provider interface {
	// Connect establishes a connection to the market data provider
	Connect(ctx context.Context) error

	// History fetches the recent price/volume history for a symbol as an
	// ordered sample slice, oldest first
	History(ctx context.Context, symbol string) ([]*models.Sample, error)

	// Subscribe subscribes to live market data for the given symbols
	// Returns a channel that will receive Quote messages
	Subscribe(ctx context.Context, symbols []string) (<-chan *Quote, error)

	// Close closes the connection to the provider
	Close() error

	// IsConnected returns whether the provider is currently connected
	IsConnected() bool

	// GetName returns the name/type of the provider (e.g., "coingecko", "mock")
	GetName() string
}

// Config holds configuration for a provider
type Config struct {
	BaseURL      string
	APIKey       string
	VsCurrency   string
	LookbackDays int
	PollInterval time.Duration
	HTTPTimeout  time.Duration
}

// Factory creates provider instances by type name.
type Factory struct {
	factories map[string]func(Config) (Provider, error)
}

// NewFactory creates a factory with the built-in providers registered.
func NewFactory() *Factory {
	factory := &Factory{
		factories: make(map[string]func(Config) (Provider, error)),
	}

	factory.Register("mock", NewMockProvider)
	factory.Register("coingecko", NewCoinGeckoProvider)

	return factory
}

// Create creates a new provider instance
func (f *Factory) Create(providerType string, config Config) (Provider, error) {
	factoryFunc, exists := f.factories[providerType]
	if !exists {
		return nil, errors.New("unknown provider type: " + providerType)
	}

	return factoryFunc(config)
}

// Register registers a custom provider factory function
func (f *Factory) Register(providerType string, factoryFunc func(Config) (Provider, error)) error {
	if _, exists := f.factories[providerType]; exists {
		return errors.New("provider type already registered: " + providerType)
	}
	f.factories[providerType] = factoryFunc
	return nil
}

// ListProviders returns a list of available provider types
func (f *Factory) ListProviders() []string {
	providers := make([]string, 0, len(f.factories))
	for providerType := range f.factories {
		providers = append(providers, providerType)
	}
	return providers
}
