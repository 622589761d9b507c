package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantpulse/indicator-engine/internal/models"
)

func TestCoinGeckoProvider_History(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "30", r.URL.Query().Get("days"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"prices": [[1717337400000, 100.5], [1717337460000, 101.25], [1717337520000, 99.75]],
			"total_volumes": [[1717337400000, 1500], [1717337460000, 2200], [1717337520000, 1800]]
		}`))
	}))
	defer server.Close()

	provider, err := NewCoinGeckoProvider(Config{BaseURL: server.URL, LookbackDays: 30})
	require.NoError(t, err)

	samples, err := provider.History(context.Background(), "bitcoin")
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, 100.5, samples[0].Price)
	assert.Equal(t, time.UnixMilli(1717337400000).UTC(), samples[0].Timestamp)
	require.NotNil(t, samples[1].Volume)
	assert.Equal(t, 2200.0, *samples[1].Volume)
}

func TestCoinGeckoProvider_HistoryDropsBackwardsPoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"prices": [[1717337460000, 101], [1717337400000, 100], [1717337520000, 102]],
			"total_volumes": []
		}`))
	}))
	defer server.Close()

	provider, err := NewCoinGeckoProvider(Config{BaseURL: server.URL})
	require.NoError(t, err)

	samples, err := provider.History(context.Background(), "bitcoin")
	require.NoError(t, err)

	// The backwards point is dropped; the rest stays appendable.
	require.Len(t, samples, 2)
	assert.Equal(t, 101.0, samples[0].Price)
	assert.Equal(t, 102.0, samples[1].Price)
	assert.Nil(t, samples[0].Volume)
}

func TestCoinGeckoProvider_HistoryErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := NewCoinGeckoProvider(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.History(context.Background(), "bitcoin")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCoinGeckoProvider_HistoryEmptySymbol(t *testing.T) {
	provider, err := NewCoinGeckoProvider(Config{})
	require.NoError(t, err)

	_, err = provider.History(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrInvalidSymbol)
}

func TestCoinGeckoProvider_SubscribeRequiresConnect(t *testing.T) {
	provider, err := NewCoinGeckoProvider(Config{})
	require.NoError(t, err)

	_, err = provider.Subscribe(context.Background(), []string{"bitcoin"})
	assert.ErrorIs(t, err, ErrProviderNotConnected)
}

func TestCoinGeckoProvider_SubscribeEmitsAdvancingPoints(t *testing.T) {
	ts := time.Now().UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"prices": [[` + msString(ts) + `, 250.5]],
			"total_volumes": [[` + msString(ts) + `, 9000]]
		}`))
	}))
	defer server.Close()

	provider, err := NewCoinGeckoProvider(Config{
		BaseURL:      server.URL,
		PollInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, provider.Connect(context.Background()))
	defer provider.Close()

	quotes, err := provider.Subscribe(context.Background(), []string{"bitcoin"})
	require.NoError(t, err)

	select {
	case quote := <-quotes:
		assert.Equal(t, "bitcoin", quote.Symbol)
		assert.Equal(t, 250.5, quote.Sample.Price)
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for quote")
	}

	// The same timestamp must not be emitted twice.
	select {
	case quote := <-quotes:
		t.Fatalf("Unexpected duplicate quote: %+v", quote)
	case <-time.After(100 * time.Millisecond):
	}
}

func msString(ts time.Time) string {
	return strconv.FormatInt(ts.UnixMilli(), 10)
}
