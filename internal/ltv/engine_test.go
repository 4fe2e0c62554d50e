package ltv

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRequiredCollateral(t *testing.T) {
	got, err := RequiredCollateral(dec("50000"), dec("7200000"), OriginationLTV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 50000 / (7200000 * 0.5) = 0.0138888..., rounded to 6 places.
	if want := dec("0.013889"); !got.Equal(want) {
		t.Fatalf("expected collateral %s, got %s", want, got)
	}
}

func TestRequiredCollateralRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		price  string
		target string
	}{
		{name: "zero price", amount: "50000", price: "0", target: "0.5"},
		{name: "negative price", amount: "50000", price: "-1", target: "0.5"},
		{name: "zero amount", amount: "0", price: "7200000", target: "0.5"},
		{name: "zero target", amount: "50000", price: "7200000", target: "0"},
		{name: "target above one", amount: "50000", price: "7200000", target: "1.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequiredCollateral(dec(tt.amount), dec(tt.price), dec(tt.target))
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCurrentLTVRejectsZeroGuards(t *testing.T) {
	if _, err := CurrentLTV(dec("50000"), dec("0.1"), decimal.Zero); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero price, got %v", err)
	}
	if _, err := CurrentLTV(dec("50000"), decimal.Zero, dec("7200000")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero collateral, got %v", err)
	}
}

// Sizing collateral at a target ratio and then measuring LTV with the same
// price must land back on the target (up to the 6-place rounding applied to
// the sized collateral).
func TestSizeThenMeasureRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		price  string
		target string
	}{
		{name: "origination", amount: "50000", price: "7200000", target: "0.5"},
		{name: "large loan", amount: "100000000", price: "8000000", target: "0.5"},
		{name: "conservative", amount: "250000", price: "9100000", target: "0.25"},
		{name: "full ratio", amount: "75000", price: "6500000", target: "1"},
	}

	tolerance := dec("0.01")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collateral, err := RequiredCollateral(dec(tt.amount), dec(tt.price), dec(tt.target))
			if err != nil {
				t.Fatalf("sizing failed: %v", err)
			}
			measured, err := CurrentLTV(dec(tt.amount), collateral, dec(tt.price))
			if err != nil {
				t.Fatalf("measuring failed: %v", err)
			}
			want := dec(tt.target).Mul(decimal.NewFromInt(100))
			if measured.Sub(want).Abs().GreaterThan(tolerance) {
				t.Fatalf("round trip drifted: sized at %s%%, measured %s%%", want, measured)
			}
		})
	}
}

// Tier boundaries are closed on the upper bound.
func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		ltv  string
		want Tier
	}{
		{ltv: "10", want: TierSafe},
		{ltv: "50", want: TierSafe},
		{ltv: "50.01", want: TierMonitor},
		{ltv: "71.59", want: TierMonitor},
		{ltv: "71.60", want: TierMarginCall},
		{ltv: "83.32", want: TierMarginCall},
		{ltv: "83.33", want: TierLiquidationRisk},
		{ltv: "120", want: TierLiquidationRisk},
	}

	for _, tt := range tests {
		t.Run(tt.ltv, func(t *testing.T) {
			if got := TierFor(dec(tt.ltv)); got != tt.want {
				t.Fatalf("TierFor(%s) = %s, want %s", tt.ltv, got, tt.want)
			}
		})
	}
}

func TestAccruedInterestFlatProRata(t *testing.T) {
	// 50000 at 14% p.a. over 12 months: 50000 * 0.14 = 7000.
	got := AccruedInterest(dec("50000"), dec("14"), 12)
	if want := dec("7000"); !got.Equal(want) {
		t.Fatalf("expected interest %s, got %s", want, got)
	}

	// 6 months is half of that.
	got = AccruedInterest(dec("50000"), dec("14"), 6)
	if want := dec("3500"); !got.Equal(want) {
		t.Fatalf("expected interest %s, got %s", want, got)
	}

	total := TotalRepayable(dec("50000"), dec("14"), 12)
	if want := dec("57000"); !total.Equal(want) {
		t.Fatalf("expected total repayable %s, got %s", want, total)
	}
}

func TestWeightedLTV(t *testing.T) {
	// 100000 principal against 0.025 BTC at 8,000,000 = 200,000 value -> 50%.
	got := WeightedLTV(dec("100000"), dec("0.025"), dec("8000000"))
	if want := dec("50"); !got.Equal(want) {
		t.Fatalf("expected weighted LTV %s, got %s", want, got)
	}

	if got := WeightedLTV(dec("100000"), decimal.Zero, dec("8000000")); !got.IsZero() {
		t.Fatalf("expected zero weighted LTV with no collateral, got %s", got)
	}
}
