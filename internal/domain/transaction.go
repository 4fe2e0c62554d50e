/**
 * @description
 * Transaction ledger entries recorded against the session: collateral
 * deposits, loan disbursements and repayments.
 */
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType categorises a ledger entry.
type TransactionType string

const (
	TransactionTypeDisbursement TransactionType = "disbursement"
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeRepayment    TransactionType = "repayment"
	TransactionTypeLiquidation  TransactionType = "liquidation"
	TransactionTypeInterest     TransactionType = "interest"
	TransactionTypeWithdrawal   TransactionType = "withdrawal"
)

// Currency of a transaction amount.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyBTC Currency = "BTC"
)

// Transaction is a single entry in the session's transaction history.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	LoanID      string          `json:"loan_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency"`
	Status      string          `json:"status"`
	Date        time.Time       `json:"date"`
	ReferenceID string          `json:"reference_id"`
}
