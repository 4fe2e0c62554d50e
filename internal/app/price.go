/**
 * @description
 * Periodic BTC price refresh. The feed is polled on a schedule; a failed
 * poll keeps the last known price, and the hardcoded fallback is used only
 * when no price has ever been observed.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/store"
	"github.com/Vijayesvar/pledgdemo/pkg/pricefeed"
)

// PriceFetcher fetches the current BTC/INR price.
type PriceFetcher interface {
	FetchPrice(ctx context.Context) (decimal.Decimal, error)
}

// PriceUpdater refreshes the session's BTC price from the feed.
type PriceUpdater struct {
	store  *store.Store
	feed   PriceFetcher
	logger *slog.Logger
}

// NewPriceUpdater creates a price updater backed by the given feed.
func NewPriceUpdater(st *store.Store, feed PriceFetcher, logger *slog.Logger) *PriceUpdater {
	return &PriceUpdater{store: st, feed: feed, logger: logger}
}

// Refresh polls the feed once. On failure the previous price stands; if no
// price has ever been set, the fallback seeds the session so LTV math never
// divides by zero.
func (p *PriceUpdater) Refresh(ctx context.Context) {
	price, err := p.feed.FetchPrice(ctx)
	if err != nil {
		p.logger.Warn("price refresh failed, keeping last known price", "error", err)
		if p.store.BTCPrice().Sign() <= 0 {
			p.store.SetBTCPrice(pricefeed.FallbackPrice)
			p.logger.Info("seeded fallback BTC price", "price", pricefeed.FallbackPrice)
		}
		return
	}

	p.store.SetBTCPrice(price)
	p.logger.Debug("BTC price refreshed", "price", price)
}
