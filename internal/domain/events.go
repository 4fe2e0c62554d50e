/**
 * @description
 * Event payloads published to the message broker when loans cross risk
 * thresholds. Publishing is optional; the scanner tolerates a nil producer.
 */
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Risk event routing keys.
const (
	RiskEventMarginCall  = "risk.margin_call"
	RiskEventLiquidation = "risk.liquidation"
)

// RiskEvent is emitted when an active loan enters the margin-call or
// liquidation zone during a risk scan.
type RiskEvent struct {
	LoanID    string          `json:"loan_id"`
	UserID    string          `json:"user_id"`
	LTV       decimal.Decimal `json:"ltv"`
	Kind      string          `json:"kind"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}
