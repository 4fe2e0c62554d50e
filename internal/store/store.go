/**
 * @description
 * In-memory session store with atomic mutations and write-through
 * persistence.
 *
 * Every mutation is applied under the lock as a single logical update, so a
 * concurrent reader (the risk scanner reading while a repayment commits)
 * sees either the fully-old or fully-new record, never a partial write.
 * Reads return copies. Persistence failures are logged and never fail the
 * mutation itself.
 */
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

const persistTimeout = 5 * time.Second

// Store owns the session state for the current process.
type Store struct {
	mu     sync.RWMutex
	state  Session
	repo   SessionRepository
	logger *slog.Logger
}

// NewStore creates a session store starting from an empty session at the
// given initial BTC price. repo may be nil, in which case the session lives
// in memory only.
func NewStore(repo SessionRepository, initialPrice decimal.Decimal, logger *slog.Logger) *Store {
	return &Store{
		state:  Session{BTCPrice: initialPrice},
		repo:   repo,
		logger: logger,
	}
}

// Hydrate replaces the in-memory session with the persisted document, if one
// exists. A missing, corrupt or version-mismatched document leaves the store
// empty and clears the stored key (discard-and-reset).
func (s *Store) Hydrate(ctx context.Context) {
	if s.repo == nil {
		return
	}

	loaded, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.logger.Info("no usable session document, starting empty", "reason", err)
			if clearErr := s.repo.Clear(ctx); clearErr != nil {
				s.logger.Warn("failed to clear stale session document", "error", clearErr)
			}
			return
		}
		s.logger.Warn("failed to load session document", "error", err)
		return
	}

	s.mu.Lock()
	fallback := s.state.BTCPrice
	s.state = *loaded
	if s.state.BTCPrice.Sign() <= 0 {
		s.state.BTCPrice = fallback
	}
	s.mu.Unlock()
	s.logger.Info("session rehydrated", "loans", len(loaded.Loans), "bank_accounts", len(loaded.BankAccounts))
}

// Login resets every session-scoped collection and installs the new user
// with KYC cleared, keeping the last known BTC price.
func (s *Store) Login(user domain.User) {
	user.KYCVerified = false
	user.KYCStatus = domain.KYCStatusNone

	s.mu.Lock()
	s.state = Session{
		User:     &user,
		BTCPrice: s.state.BTCPrice,
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// Logout clears the user and all session-scoped collections.
func (s *Store) Logout() {
	s.mu.Lock()
	s.state = Session{BTCPrice: s.state.BTCPrice}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// User returns a copy of the session user, or nil when logged out.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// UpdateUser applies fn to the session user atomically. No-op when logged
// out.
func (s *Store) UpdateUser(fn func(*domain.User)) {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return
	}
	fn(s.state.User)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// AddBankAccount appends a linked bank account.
func (s *Store) AddBankAccount(account domain.BankAccount) {
	s.mu.Lock()
	s.state.BankAccounts = append(s.state.BankAccounts, account)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// BankAccounts returns a copy of the linked accounts.
func (s *Store) BankAccounts() []domain.BankAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BankAccount, len(s.state.BankAccounts))
	copy(out, s.state.BankAccounts)
	return out
}

// VerifyBankAccount flags the identified account as verified. Unknown ids
// are ignored.
func (s *Store) VerifyBankAccount(id string) {
	s.mu.Lock()
	for i := range s.state.BankAccounts {
		if s.state.BankAccounts[i].ID == id {
			s.state.BankAccounts[i].IsVerified = true
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// HasVerifiedBankAccount reports whether at least one linked account passed
// verification.
func (s *Store) HasVerifiedBankAccount() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.state.BankAccounts {
		if a.IsVerified {
			return true
		}
	}
	return false
}

// AddLoan appends a loan to the session.
func (s *Store) AddLoan(loan domain.Loan) {
	s.mu.Lock()
	s.state.Loans = append(s.state.Loans, loan)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// UpdateLoan applies fn to the identified loan as a single atomic update.
// If fn returns an error the loan is left unchanged. Returns
// domain.ErrLoanNotFound for an unknown id.
func (s *Store) UpdateLoan(id string, fn func(*domain.Loan) error) error {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Loans {
		if s.state.Loans[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrLoanNotFound
	}

	updated := s.state.Loans[idx]
	if err := fn(&updated); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Loans[idx] = updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
	return nil
}

// LoanByID returns a copy of the identified loan.
func (s *Store) LoanByID(id string) (domain.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.state.Loans {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Loan{}, false
}

// Loans returns a copy of all loans in the session.
func (s *Store) Loans() []domain.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Loan, len(s.state.Loans))
	copy(out, s.state.Loans)
	return out
}

// LoansByStatus returns copies of the loans currently in the given status.
func (s *Store) LoansByStatus(status domain.LoanStatus) []domain.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Loan
	for _, l := range s.state.Loans {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out
}

// AddTransaction prepends a ledger entry (newest first, as displayed).
func (s *Store) AddTransaction(tx domain.Transaction) {
	s.mu.Lock()
	s.state.Transactions = append([]domain.Transaction{tx}, s.state.Transactions...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// Transactions returns a copy of the transaction history, newest first.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.state.Transactions))
	copy(out, s.state.Transactions)
	return out
}

// AddNotification prepends a notification. The list is append-only from the
// scanner's perspective; duplicate identities are not collapsed here.
func (s *Store) AddNotification(n domain.Notification) {
	s.mu.Lock()
	s.state.Notifications = append([]domain.Notification{n}, s.state.Notifications...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// Notifications returns a copy of the notification list, newest first.
func (s *Store) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.state.Notifications))
	copy(out, s.state.Notifications)
	return out
}

// MarkNotificationRead flags every notification with the given identity as
// read.
func (s *Store) MarkNotificationRead(id string) {
	s.mu.Lock()
	for i := range s.state.Notifications {
		if s.state.Notifications[i].ID == id {
			s.state.Notifications[i].Read = true
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// BTCPrice returns the current process-wide BTC price.
func (s *Store) BTCPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.BTCPrice
}

// SetBTCPrice stores a new BTC price. Non-positive values are ignored; the
// price never becomes zero or negative through this path.
func (s *Store) SetBTCPrice(price decimal.Decimal) {
	if price.Sign() <= 0 {
		return
	}
	s.mu.Lock()
	s.state.BTCPrice = price
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(snapshot)
}

// snapshotLocked copies the session for persistence. Caller holds the lock.
func (s *Store) snapshotLocked() Session {
	snap := s.state
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	snap.BankAccounts = append([]domain.BankAccount(nil), s.state.BankAccounts...)
	snap.Loans = append([]domain.Loan(nil), s.state.Loans...)
	snap.Transactions = append([]domain.Transaction(nil), s.state.Transactions...)
	snap.Notifications = append([]domain.Notification(nil), s.state.Notifications...)
	return snap
}

func (s *Store) persist(snapshot Session) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.Warn("failed to persist session document", "error", err)
	}
}
