/**
 * @description
 * Interactive what-if calculator for the LTV/price relationship. Bidirectional
 * and purely illustrative: it never reads or mutates loan state.
 *
 * @notes
 * - Anchored at a single baseline (basePrice, 50% LTV). Price -> LTV and
 *   LTV -> price are exact inverses of each other up to the display clamp.
 * - The simulator's narrative bands (55/70/83) communicate anticipatory risk
 *   for a hypothetical new loan and are deliberately distinct from the
 *   dashboard tier breakpoints in engine.go. Do not unify them.
 */
package ltv

import (
	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

// Simulator slider bounds and baseline.
var (
	SimulatorMinLTV  = decimal.NewFromInt(10)
	SimulatorMaxLTV  = decimal.NewFromInt(83)
	SimulatorBaseLTV = decimal.NewFromInt(50)
)

// Narrative band breakpoints, exclusive upper bounds.
var (
	OutlookHealthyMaxLTV  = decimal.NewFromInt(55)
	OutlookModerateMaxLTV = decimal.NewFromInt(70)
	OutlookCriticalLTV    = decimal.NewFromInt(83)
)

// Outlook is the simulator's anticipatory risk band for a simulated LTV.
type Outlook string

const (
	OutlookHealthy         Outlook = "healthy"
	OutlookModerate        Outlook = "moderate"
	OutlookMarginCallRisk  Outlook = "margin_call_risk"
	OutlookLiquidationRisk Outlook = "liquidation_risk"
)

// Narrative copy shown next to each outlook band.
var outlookNarratives = map[Outlook]string{
	OutlookHealthy:         "Loans start at 50% LTV. BTC market price and finance charges will make your LTV fluctuate.",
	OutlookModerate:        "Your LTV is rising. If it hits 70%, you'll receive a margin call.",
	OutlookMarginCallRisk:  "Warning: At 70% LTV, you will be asked to add collateral or repay part of the loan.",
	OutlookLiquidationRisk: "Critical: At 83% LTV, a portion of your collateral will be sold to reduce risk.",
}

// Simulator is a stateless what-if calculator anchored at a base price.
type Simulator struct {
	basePrice decimal.Decimal
}

// NewSimulator returns a simulator anchored at the given base price and the
// fixed 50% starting LTV.
func NewSimulator(basePrice decimal.Decimal) (Simulator, error) {
	if basePrice.Sign() <= 0 {
		return Simulator{}, domain.ErrInvalidInput
	}
	return Simulator{basePrice: basePrice}, nil
}

// BasePrice returns the anchor price.
func (s Simulator) BasePrice() decimal.Decimal { return s.basePrice }

// LTVForPrice derives the simulated LTV for a hypothetical BTC price:
// baseLTV * (basePrice / price), clamped to the slider range [10, 83].
func (s Simulator) LTVForPrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.Sign() <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	ltv := SimulatorBaseLTV.Mul(s.basePrice.Div(price))
	if ltv.LessThan(SimulatorMinLTV) {
		return SimulatorMinLTV, nil
	}
	if ltv.GreaterThan(SimulatorMaxLTV) {
		return SimulatorMaxLTV, nil
	}
	return ltv, nil
}

// PriceForLTV derives the implied BTC price at which a hypothetical loan
// would sit at the given LTV: basePrice * (baseLTV / ltv). The input must
// already be within the slider range.
func (s Simulator) PriceForLTV(ltvPercent decimal.Decimal) (decimal.Decimal, error) {
	if ltvPercent.LessThan(SimulatorMinLTV) || ltvPercent.GreaterThan(SimulatorMaxLTV) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return s.basePrice.Mul(SimulatorBaseLTV.Div(ltvPercent)), nil
}

// OutlookFor classifies a simulated LTV into its narrative band. Bounds are
// exclusive: exactly 55 is moderate, exactly 83 is liquidation risk.
func OutlookFor(ltvPercent decimal.Decimal) Outlook {
	switch {
	case ltvPercent.LessThan(OutlookHealthyMaxLTV):
		return OutlookHealthy
	case ltvPercent.LessThan(OutlookModerateMaxLTV):
		return OutlookModerate
	case ltvPercent.LessThan(OutlookCriticalLTV):
		return OutlookMarginCallRisk
	default:
		return OutlookLiquidationRisk
	}
}

// Narrative returns the user-facing copy for an outlook band.
func (o Outlook) Narrative() string {
	return outlookNarratives[o]
}

// Status is the display severity of a simulated LTV, driving the slider
// coloring. Its breakpoints (65 / 83) are a third independent set alongside
// the narrative bands and the dashboard tiers.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

var (
	StatusOKMaxLTV      = decimal.NewFromInt(65)
	StatusWarningMaxLTV = decimal.NewFromInt(83)
)

// StatusFor returns the display severity for a simulated LTV. Bounds are
// exclusive, matching the narrative bands.
func StatusFor(ltvPercent decimal.Decimal) Status {
	switch {
	case ltvPercent.LessThan(StatusOKMaxLTV):
		return StatusOK
	case ltvPercent.LessThan(StatusWarningMaxLTV):
		return StatusWarning
	default:
		return StatusDanger
	}
}
