package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/store"
	"github.com/Vijayesvar/pledgdemo/pkg/pricefeed"
)

// stubFetcher serves a canned price or error.
type stubFetcher struct {
	price decimal.Decimal
	err   error
}

func (s *stubFetcher) FetchPrice(context.Context) (decimal.Decimal, error) {
	return s.price, s.err
}

func TestRefreshUpdatesPrice(t *testing.T) {
	st := store.NewStore(nil, dec("8000000"), testLogger())
	updater := NewPriceUpdater(st, &stubFetcher{price: dec("8500000")}, testLogger())

	updater.Refresh(context.Background())

	if !st.BTCPrice().Equal(dec("8500000")) {
		t.Fatalf("expected refreshed price, got %s", st.BTCPrice())
	}
}

func TestRefreshKeepsLastKnownPriceOnFailure(t *testing.T) {
	st := store.NewStore(nil, dec("8200000"), testLogger())
	updater := NewPriceUpdater(st, &stubFetcher{err: domain.ErrFeedUnavailable}, testLogger())

	updater.Refresh(context.Background())

	if !st.BTCPrice().Equal(dec("8200000")) {
		t.Fatalf("expected last known price kept, got %s", st.BTCPrice())
	}
}

func TestRefreshSeedsFallbackWhenNoPriceEverSeen(t *testing.T) {
	st := store.NewStore(nil, decimal.Zero, testLogger())
	updater := NewPriceUpdater(st, &stubFetcher{err: domain.ErrFeedUnavailable}, testLogger())

	updater.Refresh(context.Background())

	if !st.BTCPrice().Equal(pricefeed.FallbackPrice) {
		t.Fatalf("expected fallback price, got %s", st.BTCPrice())
	}
}
