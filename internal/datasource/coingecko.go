package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

// CoinGeckoProvider fetches price and volume history from the CoinGecko
// market_chart endpoint and turns it into ordered samples. Live data is
// produced by polling: the endpoint has no streaming transport.
type CoinGeckoProvider struct {
	config    Config
	client    *http.Client
	connected bool
	lastSeen  map[string]time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// marketChartResponse mirrors the CoinGecko payload: parallel arrays of
// [unix_ms, value] pairs.
type marketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// NewCoinGeckoProvider creates a CoinGecko-backed provider
func NewCoinGeckoProvider(config Config) (Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if config.VsCurrency == "" {
		config.VsCurrency = "usd"
	}
	if config.LookbackDays <= 0 {
		config.LookbackDays = 30
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 60 * time.Second
	}
	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &CoinGeckoProvider{
		config:   config,
		client:   &http.Client{Timeout: timeout},
		lastSeen: make(map[string]time.Time),
	}, nil
}

// Connect marks the provider as usable. CoinGecko is a stateless REST API,
// so there is no session to establish.
func (p *CoinGeckoProvider) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connected {
		return ErrProviderAlreadyConnected
	}
	p.connected = true
	return nil
}

// History fetches the lookback window for one coin id, oldest first.
func (p *CoinGeckoProvider) History(ctx context.Context, symbol string) ([]*models.Sample, error) {
	return p.fetchChart(ctx, symbol, p.config.LookbackDays)
}

func (p *CoinGeckoProvider) fetchChart(ctx context.Context, symbol string, days int) ([]*models.Sample, error) {
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart", p.config.BaseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("vs_currency", p.config.VsCurrency)
	q.Set("days", strconv.Itoa(days))
	req.URL.RawQuery = q.Encode()
	if p.config.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch market chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch market chart for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var chart marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode market chart for %s: %w", symbol, err)
	}

	return chartToSamples(&chart), nil
}

// chartToSamples joins the price and volume arrays into ordered samples.
// Volumes are matched by timestamp; a price point with no matching volume
// becomes a price-only sample. Points that do not advance the clock are
// dropped so the result is always appendable.
func chartToSamples(chart *marketChartResponse) []*models.Sample {
	volumes := make(map[int64]float64, len(chart.TotalVolumes))
	for _, pair := range chart.TotalVolumes {
		volumes[int64(pair[0])] = pair[1]
	}

	samples := make([]*models.Sample, 0, len(chart.Prices))
	var last time.Time
	for _, pair := range chart.Prices {
		ms := int64(pair[0])
		ts := time.UnixMilli(ms).UTC()
		if !last.IsZero() && ts.Before(last) {
			continue
		}

		var sample *models.Sample
		if vol, ok := volumes[ms]; ok {
			sample = models.NewVolumeSample(ts, pair[1], vol)
		} else {
			sample = models.NewSample(ts, pair[1])
		}
		if err := sample.Validate(); err != nil {
			continue
		}

		samples = append(samples, sample)
		last = ts
	}
	return samples
}

// Subscribe polls the one-day chart on an interval and emits each symbol's
// newest point whenever its timestamp advances.
func (p *CoinGeckoProvider) Subscribe(ctx context.Context, symbols []string) (<-chan *Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		return nil, ErrProviderNotConnected
	}
	for _, symbol := range symbols {
		if symbol == "" {
			return nil, models.ErrInvalidSymbol
		}
	}

	quotes := make(chan *Quote, 100)
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.poll(ctx, symbols, quotes)

	return quotes, nil
}

func (p *CoinGeckoProvider) poll(ctx context.Context, symbols []string, quotes chan<- *Quote) {
	defer p.wg.Done()
	defer close(quotes)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, symbol := range symbols {
				samples, err := p.fetchChart(ctx, symbol, 1)
				if err != nil {
					logger.Warn("market chart poll failed",
						logger.String("symbol", symbol),
						logger.ErrorField(err))
					continue
				}
				if len(samples) == 0 {
					continue
				}
				latest := samples[len(samples)-1]

				p.mu.Lock()
				seen := p.lastSeen[symbol]
				if !latest.Timestamp.After(seen) {
					p.mu.Unlock()
					continue
				}
				p.lastSeen[symbol] = latest.Timestamp
				p.mu.Unlock()

				select {
				case quotes <- &Quote{Symbol: symbol, Sample: latest}:
				case <-ctx.Done():
					return
				default:
					// Channel full, drop the quote rather than stall the poll loop
				}
			}
		}
	}
}

// Close stops the poll loop and marks the provider as disconnected
func (p *CoinGeckoProvider) Close() error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.connected = false
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	return nil
}

// IsConnected returns whether the provider is connected
func (p *CoinGeckoProvider) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

// GetName returns the provider name
func (p *CoinGeckoProvider) GetName() string {
	return "coingecko"
}
