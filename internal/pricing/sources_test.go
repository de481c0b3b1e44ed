package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoCurrentPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":96543.21}}`))
	}))
	defer srv.Close()

	src := newCoinGeckoSource(srv.URL)
	price, err := src.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 96543.21, price)
}

func TestCoinGeckoRejectsNonPositivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":0}}`))
	}))
	defer srv.Close()

	src := newCoinGeckoSource(srv.URL)
	_, err := src.CurrentPrice(context.Background())
	assert.Error(t, err)
}

func TestCoinGeckoDailyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		// 8 points: the API includes today's partial candle
		w.Write([]byte(`{"prices":[
			[1756252800000,95000],[1756339200000,95500],[1756425600000,96000],
			[1756512000000,96200],[1756598400000,96400],[1756684800000,96600],
			[1756771200000,96800],[1756857600000,97000]]}`))
	}))
	defer srv.Close()

	src := newCoinGeckoSource(srv.URL)
	points, err := src.DailyHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, 95500.0, points[0].Price)
	assert.Equal(t, 97000.0, points[6].Price)
	for _, p := range points {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, p.Date)
	}
}

func TestRateLimitMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := newCoinGeckoSource(srv.URL)
	_, err := src.CurrentPrice(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestServerErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := newCoinGeckoSource(srv.URL)
	_, err := src.CurrentPrice(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestCoinMarketCapSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("X-CMC_PRO_API_KEY"))
		w.Write([]byte(`{"data":{"BTC":{"quote":{"USD":{"price":97123.45}}}}}`))
	}))
	defer srv.Close()

	src := newCoinMarketCapSource(srv.URL, "secret-key")
	price, err := src.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 97123.45, price)
}

func TestBinanceParsesStringPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"96888.77000000"}`))
	}))
	defer srv.Close()

	src := newBinanceSource(srv.URL)
	price, err := src.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 96888.77, price)
}

func TestBinanceRejectsMalformedPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"not-a-number"}`))
	}))
	defer srv.Close()

	src := newBinanceSource(srv.URL)
	_, err := src.CurrentPrice(context.Background())
	assert.Error(t, err)
}
