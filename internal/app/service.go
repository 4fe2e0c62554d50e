/**
 * @description
 * Loan lifecycle operations: application, collateral deposit, disbursement,
 * repayment and the portfolio roll-up.
 *
 * @notes
 * - Collateral is sized exactly once, at application time, against the 50%
 *   origination LTV and the price in effect at that moment. Later price
 *   moves change only the derived LTV, never the collateral.
 * - Status transitions are validated at the point of mutation so concurrent
 *   callers cannot race a loan through an illegal path.
 */
package app

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/ltv"
	"github.com/Vijayesvar/pledgdemo/internal/store"
)

// Loan application bounds.
var (
	MinLoanAmount = decimal.NewFromInt(10_000)
	MaxLoanAmount = decimal.NewFromInt(100_000_000)
)

const (
	MinTenureMonths = 1
	MaxTenureMonths = 12
)

// DefaultInterestRate is the flat annual rate applied to every demo loan.
var DefaultInterestRate = decimal.NewFromInt(14)

// LoanService implements the loan lifecycle against the session store.
type LoanService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
	randn  func(n int) int
}

// NewLoanService creates a loan service bound to the session store.
func NewLoanService(st *store.Store, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:  st,
		logger: logger,
		now:    time.Now,
		randn:  rand.Intn,
	}
}

// newLoanID builds an identifier like "LN20260042".
func (s *LoanService) newLoanID() string {
	return fmt.Sprintf("LN%d%04d", s.now().Year(), s.randn(10000))
}

// ApplyInput is a loan application request.
type ApplyInput struct {
	Amount       decimal.Decimal
	TenureMonths int
	Purpose      string
}

// Apply validates a loan application and creates the loan in pending state
// with its collateral sized at the origination LTV against the current
// price.
func (s *LoanService) Apply(input ApplyInput) (domain.Loan, error) {
	user := s.store.User()
	if user == nil {
		return domain.Loan{}, domain.ErrNotEligible
	}
	if !user.KYCVerified || !s.store.HasVerifiedBankAccount() {
		return domain.Loan{}, fmt.Errorf("%w: KYC and a verified bank account are required", domain.ErrNotEligible)
	}

	if input.Amount.LessThan(MinLoanAmount) || input.Amount.GreaterThan(MaxLoanAmount) {
		return domain.Loan{}, fmt.Errorf("%w: amount must be between %s and %s", domain.ErrInvalidInput, MinLoanAmount, MaxLoanAmount)
	}
	if input.TenureMonths < MinTenureMonths || input.TenureMonths > MaxTenureMonths {
		return domain.Loan{}, fmt.Errorf("%w: tenure must be between %d and %d months", domain.ErrInvalidInput, MinTenureMonths, MaxTenureMonths)
	}

	price := s.store.BTCPrice()
	collateral, err := ltv.RequiredCollateral(input.Amount, price, ltv.OriginationLTV)
	if err != nil {
		return domain.Loan{}, err
	}

	loan := domain.Loan{
		ID:                     s.newLoanID(),
		UserID:                 user.ID,
		Amount:                 input.Amount,
		TenureMonths:           input.TenureMonths,
		InterestRate:           DefaultInterestRate,
		Status:                 domain.LoanStatusPending,
		BTCCollateral:          collateral,
		BTCPriceAtDisbursement: price,
		LTV:                    ltv.OriginationLTV.Mul(decimal.NewFromInt(100)),
		Purpose:                input.Purpose,
	}

	s.store.AddLoan(loan)
	s.logger.Info("loan application accepted",
		"loan_id", loan.ID,
		"amount", loan.Amount,
		"tenure_months", loan.TenureMonths,
		"btc_collateral", loan.BTCCollateral,
	)
	return loan, nil
}

// ConfirmCollateralDeposit moves a pending loan to disbursing once its
// collateral deposit has been detected, and records the BTC deposit in the
// ledger.
func (s *LoanService) ConfirmCollateralDeposit(loanID string) error {
	var deposited decimal.Decimal
	var userID string
	err := s.store.UpdateLoan(loanID, func(l *domain.Loan) error {
		if l.Status != domain.LoanStatusPending {
			return fmt.Errorf("%w: cannot confirm deposit from %s", domain.ErrInvalidTransition, l.Status)
		}
		l.Status = domain.LoanStatusDisbursing
		deposited = l.BTCCollateral
		userID = l.UserID
		return nil
	})
	if err != nil {
		return err
	}

	s.store.AddTransaction(domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		LoanID:      loanID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      deposited,
		Currency:    domain.CurrencyBTC,
		Status:      "completed",
		Date:        s.now(),
		ReferenceID: fmt.Sprintf("DEP-%s", loanID),
	})
	s.logger.Info("collateral deposit confirmed", "loan_id", loanID, "btc", deposited)
	return nil
}

// MarkDisbursed moves a disbursing loan to active, stamps disbursement and
// maturity dates, pins the disbursement price and records the INR payout.
func (s *LoanService) MarkDisbursed(loanID string) error {
	price := s.store.BTCPrice()
	var amount decimal.Decimal
	var userID string
	err := s.store.UpdateLoan(loanID, func(l *domain.Loan) error {
		if l.Status != domain.LoanStatusDisbursing {
			return fmt.Errorf("%w: cannot disburse from %s", domain.ErrInvalidTransition, l.Status)
		}
		now := s.now()
		maturity := now.AddDate(0, l.TenureMonths, 0)
		l.Status = domain.LoanStatusActive
		l.DisbursementDate = &now
		l.MaturityDate = &maturity
		if price.Sign() > 0 {
			l.BTCPriceAtDisbursement = price
		}
		amount = l.Amount
		userID = l.UserID
		return nil
	})
	if err != nil {
		return err
	}

	s.store.AddTransaction(domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		LoanID:      loanID,
		Type:        domain.TransactionTypeDisbursement,
		Amount:      amount,
		Currency:    domain.CurrencyINR,
		Status:      "completed",
		Date:        s.now(),
		ReferenceID: fmt.Sprintf("DSB-%s", loanID),
	})
	s.logger.Info("loan disbursed", "loan_id", loanID, "amount", amount)
	return nil
}

// Repay reduces the outstanding principal of an active loan. Repaying the
// full balance closes the loan. Amounts that are non-positive or exceed the
// outstanding principal are rejected without mutating the loan.
func (s *LoanService) Repay(loanID string, amount decimal.Decimal) (domain.Loan, error) {
	var updated domain.Loan
	var userID string
	err := s.store.UpdateLoan(loanID, func(l *domain.Loan) error {
		if l.Status != domain.LoanStatusActive {
			return fmt.Errorf("%w: cannot repay a %s loan", domain.ErrInvalidTransition, l.Status)
		}
		if amount.Sign() <= 0 {
			return fmt.Errorf("%w: repayment must be positive", domain.ErrInvalidAmount)
		}
		if amount.GreaterThan(l.Amount) {
			return fmt.Errorf("%w: repayment %s exceeds outstanding %s", domain.ErrInvalidAmount, amount, l.Amount)
		}

		l.Amount = l.Amount.Sub(amount)
		if l.Amount.IsZero() {
			l.Status = domain.LoanStatusClosed
		}
		updated = *l
		userID = l.UserID
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}

	s.store.AddTransaction(domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		LoanID:      loanID,
		Type:        domain.TransactionTypeRepayment,
		Amount:      amount,
		Currency:    domain.CurrencyINR,
		Status:      "completed",
		Date:        s.now(),
		ReferenceID: fmt.Sprintf("RPY-%s", loanID),
	})
	if updated.Status == domain.LoanStatusClosed {
		s.logger.Info("loan fully repaid and closed", "loan_id", loanID)
	} else {
		s.logger.Info("partial repayment recorded", "loan_id", loanID, "amount", amount, "outstanding", updated.Amount)
	}
	return updated, nil
}

// RecordLTV refreshes the derived LTV on a loan for the given price. Unknown
// loans and non-positive prices are ignored; the stale value stands until a
// usable price arrives.
func (s *LoanService) RecordLTV(loanID string, price decimal.Decimal) {
	if price.Sign() <= 0 {
		return
	}
	err := s.store.UpdateLoan(loanID, func(l *domain.Loan) error {
		current, err := ltv.CurrentLTV(l.Amount, l.BTCCollateral, price)
		if err != nil {
			return err
		}
		l.LTV = current
		return nil
	})
	if err != nil {
		s.logger.Debug("skipped LTV refresh", "loan_id", loanID, "error", err)
	}
}

// PortfolioSummary is the dashboard roll-up across active loans.
type PortfolioSummary struct {
	TotalBorrowed   decimal.Decimal `json:"total_borrowed"`
	TotalCollateral decimal.Decimal `json:"total_collateral"`
	CollateralValue decimal.Decimal `json:"collateral_value"`
	WeightedLTV     decimal.Decimal `json:"weighted_ltv"`
	Tier            ltv.Tier        `json:"tier"`
	ActiveLoans     int             `json:"active_loans"`
}

// Portfolio computes the aggregate position across active loans at the
// current price.
func (s *LoanService) Portfolio() PortfolioSummary {
	price := s.store.BTCPrice()
	active := s.store.LoansByStatus(domain.LoanStatusActive)

	totalBorrowed := decimal.Zero
	totalCollateral := decimal.Zero
	for _, l := range active {
		totalBorrowed = totalBorrowed.Add(l.Amount)
		totalCollateral = totalCollateral.Add(l.BTCCollateral)
	}

	weighted := ltv.WeightedLTV(totalBorrowed, totalCollateral, price)
	return PortfolioSummary{
		TotalBorrowed:   totalBorrowed,
		TotalCollateral: totalCollateral,
		CollateralValue: totalCollateral.Mul(price),
		WeightedLTV:     weighted,
		Tier:            ltv.TierFor(weighted),
		ActiveLoans:     len(active),
	}
}
