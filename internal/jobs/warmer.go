package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
)

// Warmer refreshes the price cache ahead of its TTL so interactive
// requests rarely pay upstream latency.
type Warmer struct {
	cron     *cron.Cron
	provider *pricing.Provider
	log      zerolog.Logger
}

func NewWarmer(provider *pricing.Provider, log zerolog.Logger) *Warmer {
	return &Warmer{
		cron:     cron.New(),
		provider: provider,
		log:      log.With().Str("component", "warmer").Logger(),
	}
}

// Start schedules the refresh on the given cron spec (e.g. "@every 4m")
// and runs one warm-up immediately.
func (w *Warmer) Start(spec string) error {
	if _, err := w.cron.AddFunc(spec, w.refresh); err != nil {
		return fmt.Errorf("schedule warmer: %w", err)
	}
	w.cron.Start()
	go w.refresh()
	return nil
}

func (w *Warmer) Stop() {
	w.cron.Stop()
}

func (w *Warmer) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote := w.provider.Refresh(ctx)
	if quote.Degraded {
		w.log.Warn().Float64("price", quote.Price).Msg("cache warm-up degraded")
		return
	}
	w.log.Debug().Float64("price", quote.Price).Msg("price cache warmed")
}
