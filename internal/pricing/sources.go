package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimited marks the one transient upstream condition worth
// retrying; every other source error moves the chain along immediately.
var ErrRateLimited = errors.New("rate limited")

// Source is one upstream Bitcoin quote API.
type Source interface {
	Name() string
	CurrentPrice(ctx context.Context) (float64, error)
}

// sourceTimeout bounds every upstream call.
const sourceTimeout = 5 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: sourceTimeout}
}

func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// ---------- CoinGecko (primary) ----------

type coinGeckoSource struct {
	baseURL string
	client  *http.Client
}

func newCoinGeckoSource(baseURL string) *coinGeckoSource {
	return &coinGeckoSource{baseURL: baseURL, client: newHTTPClient()}
}

func (s *coinGeckoSource) Name() string { return "coingecko" }

func (s *coinGeckoSource) CurrentPrice(ctx context.Context) (float64, error) {
	var out struct {
		Bitcoin struct {
			USD float64 `json:"usd"`
		} `json:"bitcoin"`
	}
	url := s.baseURL + "/simple/price?ids=bitcoin&vs_currencies=usd"
	if err := getJSON(ctx, s.client, url, nil, &out); err != nil {
		return 0, err
	}
	if out.Bitcoin.USD <= 0 {
		return 0, fmt.Errorf("invalid price %f", out.Bitcoin.USD)
	}
	return out.Bitcoin.USD, nil
}

// DailyHistory returns the last `days` daily closes, oldest first.
func (s *coinGeckoSource) DailyHistory(ctx context.Context, days int) ([]PricePoint, error) {
	var out struct {
		Prices [][2]float64 `json:"prices"`
	}
	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=%d&interval=daily", s.baseURL, days)
	if err := getJSON(ctx, s.client, url, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Prices) == 0 {
		return nil, fmt.Errorf("empty price series")
	}

	points := make([]PricePoint, 0, days)
	start := len(out.Prices) - days
	if start < 0 {
		start = 0
	}
	for _, p := range out.Prices[start:] {
		ts := time.UnixMilli(int64(p[0]))
		points = append(points, PricePoint{
			Date:  ts.Format("2006-01-02"),
			Price: p[1],
		})
	}
	return points, nil
}

// ---------- CoinMarketCap (secondary, needs an API key) ----------

type coinMarketCapSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newCoinMarketCapSource(baseURL, apiKey string) *coinMarketCapSource {
	return &coinMarketCapSource{baseURL: baseURL, apiKey: apiKey, client: newHTTPClient()}
}

func (s *coinMarketCapSource) Name() string { return "coinmarketcap" }

func (s *coinMarketCapSource) CurrentPrice(ctx context.Context) (float64, error) {
	var out struct {
		Data struct {
			BTC struct {
				Quote struct {
					USD struct {
						Price float64 `json:"price"`
					} `json:"USD"`
				} `json:"quote"`
			} `json:"BTC"`
		} `json:"data"`
	}
	url := s.baseURL + "/cryptocurrency/quotes/latest?symbol=BTC&convert=USD"
	headers := map[string]string{"X-CMC_PRO_API_KEY": s.apiKey}
	if err := getJSON(ctx, s.client, url, headers, &out); err != nil {
		return 0, err
	}
	price := out.Data.BTC.Quote.USD.Price
	if price <= 0 {
		return 0, fmt.Errorf("invalid price %f", price)
	}
	return price, nil
}

// ---------- Binance (tertiary) ----------

type binanceSource struct {
	baseURL string
	client  *http.Client
}

func newBinanceSource(baseURL string) *binanceSource {
	return &binanceSource{baseURL: baseURL, client: newHTTPClient()}
}

func (s *binanceSource) Name() string { return "binance" }

func (s *binanceSource) CurrentPrice(ctx context.Context) (float64, error) {
	var out struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	url := s.baseURL + "/ticker/price?symbol=BTCUSDT"
	if err := getJSON(ctx, s.client, url, nil, &out); err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(out.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", out.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price %f", price)
	}
	return price, nil
}
