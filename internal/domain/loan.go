/**
 * @description
 * This file defines the core domain model for a BTC-collateralized loan.
 *
 * @notes
 * - BTCCollateral is sized once at application time (50% LTV) and never
 *   changes afterwards; only the derived LTV field moves with price.
 * - Amount is the outstanding principal and decreases on repayment.
 */
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending    LoanStatus = "pending"
	LoanStatusDisbursing LoanStatus = "disbursing"
	LoanStatusActive     LoanStatus = "active"
	LoanStatusClosed     LoanStatus = "closed"
	LoanStatusRejected   LoanStatus = "rejected"
)

// Terminal reports whether no further status transition is allowed.
func (s LoanStatus) Terminal() bool {
	return s == LoanStatusClosed || s == LoanStatusRejected
}

// Loan represents a BTC-backed loan held in the current session.
type Loan struct {
	ID                     string          `json:"id"`
	UserID                 string          `json:"user_id"`
	Amount                 decimal.Decimal `json:"amount"`
	TenureMonths           int             `json:"tenure_months"`
	InterestRate           decimal.Decimal `json:"interest_rate"`
	Status                 LoanStatus      `json:"status"`
	BTCCollateral          decimal.Decimal `json:"btc_collateral"`
	BTCPriceAtDisbursement decimal.Decimal `json:"btc_price_at_disbursement"`
	LTV                    decimal.Decimal `json:"ltv"`
	Purpose                string          `json:"purpose,omitempty"`
	DisbursementDate       *time.Time      `json:"disbursement_date,omitempty"`
	MaturityDate           *time.Time      `json:"maturity_date,omitempty"`
}
