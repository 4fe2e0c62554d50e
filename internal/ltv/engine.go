/**
 * @description
 * Pure loan-to-value math: collateral sizing, current LTV and risk-tier
 * classification. Stateless and safe for concurrent use.
 *
 * @notes
 * - The tier breakpoints 50 / 71.59 / 83.32 are calibration constants, not
 *   round numbers. They are exported so tests can assert boundary behaviour
 *   exactly at the breakpoints.
 * - The scanner alert thresholds (70 / 83) are a separate set: they decide
 *   when to notify, not how to label a loan on the dashboard.
 */
package ltv

import (
	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

// Tier is the dashboard risk classification of a loan's current LTV.
type Tier string

const (
	TierSafe            Tier = "safe"
	TierMonitor         Tier = "monitor"
	TierMarginCall      Tier = "margin_call"
	TierLiquidationRisk Tier = "liquidation_risk"
)

// Dashboard tier breakpoints, upper bound inclusive.
var (
	TierSafeMaxLTV       = decimal.NewFromInt(50)
	TierMonitorMaxLTV    = decimal.NewFromFloat(71.59)
	TierMarginCallMaxLTV = decimal.NewFromFloat(83.32)
)

// Scanner alert thresholds, exclusive: an active loan notifies when its LTV
// strictly exceeds these.
var (
	MarginCallAlertLTV  = decimal.NewFromInt(70)
	LiquidationAlertLTV = decimal.NewFromInt(83)
)

// OriginationLTV is the fixed target ratio used to size collateral at
// application time.
var OriginationLTV = decimal.NewFromFloat(0.5)

// CollateralPrecision is the number of decimal places collateral amounts are
// rounded to (satoshi-scale display precision used throughout the product).
const CollateralPrecision = 6

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// RequiredCollateral returns the BTC amount needed to back loanAmount at
// targetLTV given the current price: loanAmount / (btcPrice * targetLTV),
// rounded to CollateralPrecision places. A non-positive price, amount or an
// out-of-range target is rejected rather than silently producing Inf/NaN.
func RequiredCollateral(loanAmount, btcPrice, targetLTV decimal.Decimal) (decimal.Decimal, error) {
	if loanAmount.Sign() <= 0 || btcPrice.Sign() <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if targetLTV.Sign() <= 0 || targetLTV.GreaterThan(one) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return loanAmount.Div(btcPrice.Mul(targetLTV)).Round(CollateralPrecision), nil
}

// CurrentLTV returns the loan-to-value percentage for the given outstanding
// principal, pledged collateral and current price:
// (loanAmount / (btcCollateral * btcPrice)) * 100.
func CurrentLTV(loanAmount, btcCollateral, btcPrice decimal.Decimal) (decimal.Decimal, error) {
	if loanAmount.Sign() < 0 || btcCollateral.Sign() <= 0 || btcPrice.Sign() <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return loanAmount.Div(btcCollateral.Mul(btcPrice)).Mul(hundred), nil
}

// TierFor classifies an LTV percentage against the dashboard breakpoints.
// Thresholds are evaluated in ascending order, first match wins, upper bound
// inclusive.
func TierFor(ltvPercent decimal.Decimal) Tier {
	switch {
	case ltvPercent.LessThanOrEqual(TierSafeMaxLTV):
		return TierSafe
	case ltvPercent.LessThanOrEqual(TierMonitorMaxLTV):
		return TierMonitor
	case ltvPercent.LessThanOrEqual(TierMarginCallMaxLTV):
		return TierMarginCall
	default:
		return TierLiquidationRisk
	}
}

// AccruedInterest returns the flat pro-rata interest over the full tenure:
// amount * rate/100 * months/12. No compounding.
func AccruedInterest(amount, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	months := decimal.NewFromInt(int64(tenureMonths))
	return amount.Mul(annualRatePercent).Div(hundred).Mul(months).Div(twelve)
}

// TotalRepayable returns principal plus flat pro-rata interest.
func TotalRepayable(amount, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	return amount.Add(AccruedInterest(amount, annualRatePercent, tenureMonths))
}

// WeightedLTV returns the portfolio-level LTV across a set of loans:
// total principal over total collateral value. Zero when there is no
// collateral value to divide by.
func WeightedLTV(totalLoanAmount, totalCollateral, btcPrice decimal.Decimal) decimal.Decimal {
	collateralValue := totalCollateral.Mul(btcPrice)
	if collateralValue.Sign() <= 0 {
		return decimal.Zero
	}
	return totalLoanAmount.Div(collateralValue).Mul(hundred)
}
