package datasource

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/quantpulse/indicator-engine/internal/models"
)

// MockProvider is a mock implementation of Provider for testing. It serves a
// deterministic history and generates random-walk quotes.
type MockProvider struct {
	config     Config
	connected  bool
	subscribed map[string]bool
	quoteChan  chan *Quote
	mu         sync.RWMutex
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewMockProvider creates a new mock provider
func NewMockProvider(config Config) (Provider, error) {
	if config.PollInterval <= 0 {
		config.PollInterval = 100 * time.Millisecond
	}
	return &MockProvider{
		config:     config,
		subscribed: make(map[string]bool),
		quoteChan:  make(chan *Quote, 100),
	}, nil
}

// Connect establishes a connection (mock - always succeeds)
func (m *MockProvider) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrProviderAlreadyConnected
	}

	m.connected = true
	return nil
}

// History returns a deterministic minute-spaced random walk ending now.
// The walk is seeded from the symbol so repeated calls agree.
func (m *MockProvider) History(ctx context.Context, symbol string) ([]*models.Sample, error) {
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	n := m.config.LookbackDays * 24 * 60
	if n <= 0 {
		n = 500
	}
	if n > 5000 {
		n = 5000
	}

	rng := rand.New(rand.NewSource(seedFor(symbol)))
	price := 100.0 + rng.Float64()*200.0
	start := time.Now().UTC().Add(-time.Duration(n) * time.Minute).Truncate(time.Minute)

	samples := make([]*models.Sample, 0, n)
	for i := 0; i < n; i++ {
		price += (rng.Float64() - 0.5) * 2.0
		if price < 1.0 {
			price = 1.0
		}
		volume := float64(rng.Intn(1000) + 100)
		samples = append(samples, models.NewVolumeSample(start.Add(time.Duration(i)*time.Minute), price, volume))
	}
	return samples, nil
}

func seedFor(symbol string) int64 {
	var seed int64 = 1469598103934665603
	for _, r := range symbol {
		seed ^= int64(r)
		seed *= 1099511628211
	}
	return seed
}

// Subscribe subscribes to mock market data for the given symbols
func (m *MockProvider) Subscribe(ctx context.Context, symbols []string) (<-chan *Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil, ErrProviderNotConnected
	}

	for _, symbol := range symbols {
		if symbol == "" {
			return nil, models.ErrInvalidSymbol
		}
		m.subscribed[symbol] = true
	}

	if m.cancel == nil {
		ctx, cancel := context.WithCancel(ctx)
		m.cancel = cancel
		m.wg.Add(1)
		go m.generateQuotes(ctx)
	}

	return m.quoteChan, nil
}

// Close closes the connection
func (m *MockProvider) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	cancel := m.cancel
	m.cancel = nil
	m.connected = false
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// The generator must be fully stopped before the channel closes.
	m.wg.Wait()
	close(m.quoteChan)

	return nil
}

// IsConnected returns whether the provider is connected
func (m *MockProvider) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// GetName returns the provider name
func (m *MockProvider) GetName() string {
	return "mock"
}

// generateQuotes generates random-walk quotes for subscribed symbols
func (m *MockProvider) generateQuotes(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	basePrices := make(map[string]float64)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.RLock()
			subscribed := make([]string, 0, len(m.subscribed))
			for symbol := range m.subscribed {
				subscribed = append(subscribed, symbol)
			}
			m.mu.RUnlock()

			for _, symbol := range subscribed {
				basePrice, ok := basePrices[symbol]
				if !ok {
					basePrice = 100.0 + rand.Float64()*200.0
				}
				newPrice := basePrice + (rand.Float64()-0.5)*2.0
				if newPrice < 1.0 {
					newPrice = 1.0
				}
				basePrices[symbol] = newPrice

				sample := models.NewVolumeSample(time.Now().UTC(), newPrice, float64(rand.Intn(1000)+100))
				if err := sample.Validate(); err != nil {
					continue
				}

				select {
				case m.quoteChan <- &Quote{Symbol: symbol, Sample: sample}:
				case <-ctx.Done():
					return
				default:
					// Channel full, skip this quote
				}
			}
		}
	}
}

// GetSubscribedSymbols returns the list of currently subscribed symbols (for testing)
func (m *MockProvider) GetSubscribedSymbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.subscribed))
	for symbol := range m.subscribed {
		symbols = append(symbols, symbol)
	}
	return symbols
}
