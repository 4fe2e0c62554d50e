package app

import (
	"errors"
	"testing"
	"time"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

// shrinkStages collapses every flow stage to a millisecond for the duration
// of a test.
func shrinkStages(t *testing.T) {
	t.Helper()
	origKYC, origPenny, origDisb := kycStages, pennyDropStages, disbursementStages
	t.Cleanup(func() {
		kycStages, pennyDropStages, disbursementStages = origKYC, origPenny, origDisb
	})

	fast := func(stages []flowStage) []flowStage {
		out := make([]flowStage, len(stages))
		for i, s := range stages {
			out[i] = flowStage{Name: s.Name, Duration: time.Millisecond}
		}
		return out
	}
	kycStages = fast(kycStages)
	pennyDropStages = fast(pennyDropStages)
	disbursementStages = fast(disbursementStages)
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestKYCFlow(t *testing.T) {
	shrinkStages(t)
	st, svc := newTestService("8000000")
	st.Login(domain.User{ID: "user-1", Email: "demo@pledg.in"})

	v := NewVerificationService(st, svc, testLogger())
	defer v.Close()

	if err := v.StartKYC(); err != nil {
		t.Fatalf("StartKYC failed: %v", err)
	}

	// Pending is set synchronously before the staged work begins.
	if user := st.User(); user.KYCStatus != domain.KYCStatusPending {
		t.Fatalf("expected pending immediately, got %s", user.KYCStatus)
	}

	eventually(t, func() bool {
		user := st.User()
		return user != nil && user.KYCVerified && user.KYCStatus == domain.KYCStatusVerified
	}, "KYC flow never completed")

	if p, ok := v.Progress(FlowKYC); !ok || !p.Done {
		t.Fatalf("expected completed KYC progress, got %+v", p)
	}

	// A success notification was recorded.
	eventually(t, func() bool {
		for _, n := range st.Notifications() {
			if n.Title == "KYC Verified" && n.Type == domain.NotificationSuccess {
				return true
			}
		}
		return false
	}, "missing KYC notification")
}

func TestStartKYCRequiresUser(t *testing.T) {
	st, svc := newTestService("8000000")
	v := NewVerificationService(st, svc, testLogger())
	defer v.Close()

	if err := v.StartKYC(); !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible with no user, got %v", err)
	}
}

func TestLinkBankAccountPennyDrop(t *testing.T) {
	shrinkStages(t)
	st, svc := newTestService("8000000")
	st.Login(domain.User{ID: "user-1"})

	v := NewVerificationService(st, svc, testLogger())
	defer v.Close()

	account, err := v.LinkBankAccount(LinkBankAccountInput{
		AccountHolderName: "Demo User",
		AccountNumber:     "50100123456789",
		IFSCCode:          "hdfc0001234",
	})
	if err != nil {
		t.Fatalf("LinkBankAccount failed: %v", err)
	}
	if account.BankName != "HDFC Bank" {
		t.Fatalf("expected bank autodetected from IFSC, got %s", account.BankName)
	}
	if account.IFSCCode != "HDFC0001234" {
		t.Fatalf("expected normalised IFSC, got %s", account.IFSCCode)
	}
	if !account.IsPrimary {
		t.Fatal("first account should be primary")
	}
	if account.IsVerified {
		t.Fatal("account must start unverified")
	}

	eventually(t, st.HasVerifiedBankAccount, "penny drop never verified the account")
}

func TestLinkBankAccountValidation(t *testing.T) {
	st, svc := newTestService("8000000")
	st.Login(domain.User{ID: "user-1"})

	v := NewVerificationService(st, svc, testLogger())
	defer v.Close()

	_, err := v.LinkBankAccount(LinkBankAccountInput{AccountHolderName: "", AccountNumber: "123", IFSCCode: "HDFC0001234"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBankNameForIFSC(t *testing.T) {
	tests := []struct {
		ifsc string
		want string
	}{
		{ifsc: "HDFC0001234", want: "HDFC Bank"},
		{ifsc: "sbin0005943", want: "State Bank of India"},
		{ifsc: "ICIC0004321", want: "ICICI Bank"},
		{ifsc: "UTIB0001111", want: "Bank"},
		{ifsc: "XX", want: "Bank"},
	}

	for _, tt := range tests {
		if got := BankNameForIFSC(tt.ifsc); got != tt.want {
			t.Fatalf("BankNameForIFSC(%s) = %s, want %s", tt.ifsc, got, tt.want)
		}
	}
}

func TestDisbursementFlow(t *testing.T) {
	shrinkStages(t)
	st, svc := newTestService("8000000")
	seedEligibleUser(st)

	loan, err := svc.Apply(ApplyInput{Amount: dec("60000"), TenureMonths: 6})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	v := NewVerificationService(st, svc, testLogger())
	defer v.Close()

	if err := v.StartDisbursement(loan.ID); err != nil {
		t.Fatalf("StartDisbursement failed: %v", err)
	}

	eventually(t, func() bool {
		got, ok := st.LoanByID(loan.ID)
		return ok && got.Status == domain.LoanStatusActive
	}, "disbursement flow never activated the loan")

	// Both ledger entries exist: the BTC deposit and the INR payout.
	var sawDeposit, sawDisbursement bool
	for _, tx := range st.Transactions() {
		switch tx.Type {
		case domain.TransactionTypeDeposit:
			sawDeposit = true
		case domain.TransactionTypeDisbursement:
			sawDisbursement = true
		}
	}
	if !sawDeposit || !sawDisbursement {
		t.Fatalf("expected deposit and disbursement entries, got deposit=%v disbursement=%v", sawDeposit, sawDisbursement)
	}
}

func TestStartDisbursementValidatesState(t *testing.T) {
	st, svc := newTestService("8000000")
	seedEligibleUser(st)
	st.AddLoan(domain.Loan{ID: "LN1", Status: domain.LoanStatusActive})

	v := NewVerificationService(st, svc, testLogger())
	defer v.Close()

	if err := v.StartDisbursement("missing"); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
	if err := v.StartDisbursement("LN1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCloseCancelsInFlightFlows(t *testing.T) {
	st, svc := newTestService("8000000")
	st.Login(domain.User{ID: "user-1"})

	// Real stage durations; Close must interrupt them promptly.
	v := NewVerificationService(st, svc, testLogger())
	if err := v.StartKYC(); err != nil {
		t.Fatalf("StartKYC failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		v.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the in-flight flow")
	}

	if user := st.User(); user.KYCVerified {
		t.Fatal("cancelled flow must not verify the user")
	}
}
