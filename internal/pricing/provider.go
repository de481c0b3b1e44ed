package pricing

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/config"
)

const (
	cacheKeyPrice   = "bitcoin_price"
	cacheKeyHistory = "bitcoin_history"

	maxAttempts = 3
	historyDays = 7
	maxJitter   = 100 * time.Millisecond
)

// Quote is a Bitcoin price in USD. Degraded marks a fallback value that
// did not come from a live source.
type Quote struct {
	Price    float64 `json:"price"`
	Degraded bool    `json:"degraded"`
}

// PricePoint is one day in the price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// HistorySource is the single upstream used for the 7-day series.
type HistorySource interface {
	DailyHistory(ctx context.Context, days int) ([]PricePoint, error)
}

// Provider serves the current Bitcoin price and a 7-day history from an
// ordered source chain with caching. Availability beats accuracy: every
// failure path ends in a usable (if degraded) value, never an error.
type Provider struct {
	sources  []Source
	history  HistorySource
	cache    Cache
	ttl      time.Duration
	fallback float64
	backoff  time.Duration
	log      zerolog.Logger

	sleep func(time.Duration) // swapped out in tests
}

func NewProvider(cfg config.PricingConfig, cache Cache, log zerolog.Logger) *Provider {
	gecko := newCoinGeckoSource(cfg.CoinGeckoURL)

	sources := []Source{gecko}
	if cfg.CoinMarketCapKey != "" {
		sources = append(sources, newCoinMarketCapSource(cfg.CoinMarketCapURL, cfg.CoinMarketCapKey))
	}
	sources = append(sources, newBinanceSource(cfg.BinanceURL))

	return &Provider{
		sources:  sources,
		history:  gecko,
		cache:    cache,
		ttl:      cfg.CacheTTL(),
		fallback: cfg.FallbackPrice,
		backoff:  cfg.Backoff(),
		log:      log.With().Str("component", "pricing").Logger(),
		sleep:    time.Sleep,
	}
}

// CurrentPrice returns the Bitcoin price in USD. A fresh cache entry is
// served without any upstream call.
func (p *Provider) CurrentPrice(ctx context.Context) Quote {
	if v, ok := p.cache.Get(ctx, cacheKeyPrice); ok {
		if price, ok := v.(float64); ok {
			return Quote{Price: price}
		}
	}
	return p.Refresh(ctx)
}

// Refresh walks the source chain unconditionally and writes the result
// through to the cache. The cache-warming job calls this directly.
func (p *Provider) Refresh(ctx context.Context) Quote {
	for _, src := range p.sources {
		price, err := p.fetchWithRetry(ctx, src)
		if err != nil {
			p.log.Warn().Err(err).Str("source", src.Name()).Msg("price source failed")
			continue
		}
		p.cache.Set(ctx, cacheKeyPrice, price, p.ttl)
		return Quote{Price: price}
	}

	p.log.Error().Float64("fallback", p.fallback).Msg("all price sources exhausted")
	return Quote{Price: p.fallback, Degraded: true}
}

// fetchWithRetry calls one source up to maxAttempts times, waiting
// backoff*attempt plus jitter between tries. Only a rate-limit signal is
// retried; anything else fails the source immediately.
func (p *Provider) fetchWithRetry(ctx context.Context, src Source) (float64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, sourceTimeout)
		price, err := src.CurrentPrice(callCtx)
		cancel()
		if err == nil {
			return price, nil
		}
		lastErr = err
		if !errors.Is(err, ErrRateLimited) {
			return 0, err
		}
		if attempt < maxAttempts {
			wait := p.backoff*time.Duration(attempt) + time.Duration(rand.Int63n(int64(maxJitter)))
			p.log.Debug().Str("source", src.Name()).Int("attempt", attempt).
				Dur("wait", wait).Msg("rate limited, retrying")
			p.sleep(wait)
		}
	}
	return 0, lastErr
}

// History returns 7 daily price points, oldest first. On upstream failure
// it synthesizes a series anchored at the fallback price so chart clients
// never see an error; the result is marked degraded.
func (p *Provider) History(ctx context.Context) ([]PricePoint, bool) {
	if v, ok := p.cache.Get(ctx, cacheKeyHistory); ok {
		if points, ok := v.([]PricePoint); ok {
			return points, false
		}
	}

	points, err := p.history.DailyHistory(ctx, historyDays)
	if err == nil {
		p.cache.Set(ctx, cacheKeyHistory, points, p.ttl)
		return points, false
	}
	p.log.Warn().Err(err).Msg("history source failed, synthesizing series")

	// Synthetic data is never cached: it is not market data.
	anchor := p.fallback
	if q, ok := p.cache.Get(ctx, cacheKeyPrice); ok {
		if price, ok := q.(float64); ok {
			anchor = price
		}
	}
	return syntheticHistory(anchor, historyDays), true
}

// syntheticHistory builds a plausible series around the anchor with a
// bounded (±2%) perturbation per day.
func syntheticHistory(anchor float64, days int) []PricePoint {
	points := make([]PricePoint, 0, days)
	today := time.Now()
	for i := days - 1; i >= 0; i-- {
		perturbation := (rand.Float64()*2 - 1) * 0.02
		points = append(points, PricePoint{
			Date:  today.AddDate(0, 0, -i).Format("2006-01-02"),
			Price: anchor * (1 + perturbation),
		})
	}
	return points
}
