/**
 * @description
 * Staged background flows: KYC verification, penny-drop bank account
 * verification and loan disbursement. Each flow is a fixed sequence of
 * timed stages run on its own goroutine, with progress queryable while the
 * flow is in flight.
 *
 * @notes
 * - Stage tables are package variables so tests can shrink the durations.
 * - Close cancels in-flight flows and waits for their goroutines. A
 *   cancelled flow leaves whatever state its completed stages already
 *   committed; it never rolls back.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/store"
)

// flowStage is one timed step of a staged flow.
type flowStage struct {
	Name     string
	Duration time.Duration
}

var kycStages = []flowStage{
	{Name: "uploading_documents", Duration: 1500 * time.Millisecond},
	{Name: "verifying_identity", Duration: 2 * time.Second},
	{Name: "checking_records", Duration: 1500 * time.Millisecond},
	{Name: "finalizing", Duration: 1500 * time.Millisecond},
}

var pennyDropStages = []flowStage{
	{Name: "validating_account", Duration: 1500 * time.Millisecond},
	{Name: "initiating_penny_drop", Duration: 1500 * time.Millisecond},
	{Name: "awaiting_credit", Duration: 2 * time.Second},
	{Name: "matching_name", Duration: 1500 * time.Millisecond},
}

var disbursementStages = []flowStage{
	{Name: "detecting_deposit", Duration: 2 * time.Second},
	{Name: "confirming_collateral", Duration: 3 * time.Second},
	{Name: "disbursing_funds", Duration: 3 * time.Second},
}

// FlowProgress is a point-in-time view of a staged flow.
type FlowProgress struct {
	Flow        string `json:"flow"`
	Stage       string `json:"stage"`
	StageIndex  int    `json:"stage_index"`
	TotalStages int    `json:"total_stages"`
	Done        bool   `json:"done"`
}

// Flow identifiers used as progress keys.
const (
	FlowKYC          = "kyc"
	FlowPennyDrop    = "penny_drop"
	FlowDisbursement = "disbursement"
)

// ifscBankNames maps IFSC prefixes to display names for autodetection.
var ifscBankNames = map[string]string{
	"HDFC": "HDFC Bank",
	"SBIN": "State Bank of India",
	"ICIC": "ICICI Bank",
}

// BankNameForIFSC returns the display name for an IFSC code's bank, or a
// generic label for unknown prefixes.
func BankNameForIFSC(ifsc string) string {
	code := strings.ToUpper(strings.TrimSpace(ifsc))
	if len(code) >= 4 {
		if name, ok := ifscBankNames[code[:4]]; ok {
			return name
		}
	}
	return "Bank"
}

// VerificationService runs the staged KYC, penny-drop and disbursement
// flows against the session store.
type VerificationService struct {
	store  *store.Store
	loans  *LoanService
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	progress map[string]FlowProgress
}

// NewVerificationService creates the staged-flow runner.
func NewVerificationService(st *store.Store, loans *LoanService, logger *slog.Logger) *VerificationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &VerificationService{
		store:    st,
		loans:    loans,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		progress: make(map[string]FlowProgress),
	}
}

// Close cancels in-flight flows and waits for them to stop.
func (v *VerificationService) Close() {
	v.cancel()
	v.wg.Wait()
}

// Progress returns the latest view of the named flow. The second return is
// false when the flow has never started.
func (v *VerificationService) Progress(flow string) (FlowProgress, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.progress[flow]
	return p, ok
}

func (v *VerificationService) setProgress(flow string, stageIdx, total int, stage string, done bool) {
	v.mu.Lock()
	v.progress[flow] = FlowProgress{
		Flow:        flow,
		Stage:       stage,
		StageIndex:  stageIdx,
		TotalStages: total,
		Done:        done,
	}
	v.mu.Unlock()
}

// runStages walks the stage table sequentially, updating progress as each
// stage begins. Returns false if the context was cancelled mid-flow.
func (v *VerificationService) runStages(flow string, stages []flowStage) bool {
	for i, stage := range stages {
		v.setProgress(flow, i, len(stages), stage.Name, false)
		if !v.sleepStage(flow, stage) {
			return false
		}
	}
	v.setProgress(flow, len(stages), len(stages), "completed", true)
	return true
}

// StartKYC begins the KYC flow for the session user. Marks the user pending
// immediately and verified once all stages complete.
func (v *VerificationService) StartKYC() error {
	user := v.store.User()
	if user == nil {
		return domain.ErrNotEligible
	}
	if user.KYCVerified {
		return nil
	}

	v.store.UpdateUser(func(u *domain.User) {
		u.KYCStatus = domain.KYCStatusPending
	})

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		if !v.runStages(FlowKYC, kycStages) {
			return
		}

		v.store.UpdateUser(func(u *domain.User) {
			u.KYCVerified = true
			u.KYCStatus = domain.KYCStatusVerified
		})
		v.store.AddNotification(domain.Notification{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			Title:   "KYC Verified",
			Message: "Your identity has been verified. You can now link a bank account.",
			Type:    domain.NotificationSuccess,
			Date:    time.Now(),
		})
		v.logger.Info("KYC verified", "user_id", user.ID)
	}()
	return nil
}

// LinkBankAccountInput is a bank account link request.
type LinkBankAccountInput struct {
	AccountHolderName string
	AccountNumber     string
	IFSCCode          string
}

// LinkBankAccount records an unverified account with its bank name detected
// from the IFSC code, then runs the penny-drop flow which flips the account
// to verified on completion.
func (v *VerificationService) LinkBankAccount(input LinkBankAccountInput) (domain.BankAccount, error) {
	user := v.store.User()
	if user == nil {
		return domain.BankAccount{}, domain.ErrNotEligible
	}
	if strings.TrimSpace(input.AccountHolderName) == "" ||
		strings.TrimSpace(input.AccountNumber) == "" ||
		strings.TrimSpace(input.IFSCCode) == "" {
		return domain.BankAccount{}, fmt.Errorf("%w: holder name, account number and IFSC are required", domain.ErrInvalidInput)
	}

	account := domain.BankAccount{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		AccountHolderName: input.AccountHolderName,
		BankName:          BankNameForIFSC(input.IFSCCode),
		AccountNumber:     input.AccountNumber,
		IFSCCode:          strings.ToUpper(strings.TrimSpace(input.IFSCCode)),
		IsPrimary:         len(v.store.BankAccounts()) == 0,
	}
	v.store.AddBankAccount(account)

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		if !v.runStages(FlowPennyDrop, pennyDropStages) {
			return
		}

		v.store.VerifyBankAccount(account.ID)
		v.store.AddNotification(domain.Notification{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			Title:   "Bank Account Verified",
			Message: fmt.Sprintf("%s account ending %s verified via penny drop.", account.BankName, lastFour(account.AccountNumber)),
			Type:    domain.NotificationSuccess,
			Date:    time.Now(),
		})
		v.logger.Info("bank account verified", "account_id", account.ID, "bank", account.BankName)
	}()
	return account, nil
}

// StartDisbursement runs the collateral-detection and payout flow for a
// pending loan. Stage boundaries drive the loan's status transitions.
func (v *VerificationService) StartDisbursement(loanID string) error {
	loan, ok := v.store.LoanByID(loanID)
	if !ok {
		return domain.ErrLoanNotFound
	}
	if loan.Status != domain.LoanStatusPending {
		return fmt.Errorf("%w: cannot start disbursement from %s", domain.ErrInvalidTransition, loan.Status)
	}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		stages := disbursementStages
		total := len(stages)

		// Stage 1: detect the collateral deposit.
		v.setProgress(FlowDisbursement, 0, total, stages[0].Name, false)
		if !v.sleepStage(FlowDisbursement, stages[0]) {
			return
		}
		if err := v.loans.ConfirmCollateralDeposit(loanID); err != nil {
			v.logger.Error("collateral confirmation failed", "loan_id", loanID, "error", err)
			return
		}

		// Stage 2: confirmations.
		v.setProgress(FlowDisbursement, 1, total, stages[1].Name, false)
		if !v.sleepStage(FlowDisbursement, stages[1]) {
			return
		}

		// Stage 3: payout.
		v.setProgress(FlowDisbursement, 2, total, stages[2].Name, false)
		if !v.sleepStage(FlowDisbursement, stages[2]) {
			return
		}
		if err := v.loans.MarkDisbursed(loanID); err != nil {
			v.logger.Error("disbursement failed", "loan_id", loanID, "error", err)
			return
		}

		v.setProgress(FlowDisbursement, total, total, "completed", true)
		v.store.AddNotification(domain.Notification{
			ID:      uuid.NewString(),
			UserID:  loan.UserID,
			LoanID:  loanID,
			Title:   "Loan Disbursed",
			Message: fmt.Sprintf("Loan %s has been disbursed to your bank account.", loanID),
			Type:    domain.NotificationSuccess,
			Date:    time.Now(),
		})
	}()
	return nil
}

func (v *VerificationService) sleepStage(flow string, stage flowStage) bool {
	v.logger.Info("flow stage started", "flow", flow, "stage", stage.Name)
	timer := time.NewTimer(stage.Duration)
	select {
	case <-v.ctx.Done():
		timer.Stop()
		v.logger.Warn("flow cancelled", "flow", flow, "stage", stage.Name)
		return false
	case <-timer.C:
		return true
	}
}

func lastFour(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return accountNumber[len(accountNumber)-4:]
}
