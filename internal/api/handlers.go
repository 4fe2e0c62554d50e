/**
 * @description
 * This file contains the HTTP handler functions for the lending service.
 * Handlers are responsible for parsing incoming requests, calling the
 * appropriate business logic in the service layer, and writing the HTTP
 * response.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/app"
	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/ltv"
	"github.com/Vijayesvar/pledgdemo/internal/store"
)

// Handler holds the application services that handlers interact with.
type Handler struct {
	auth         *app.AuthService
	loans        *app.LoanService
	verification *app.VerificationService
	store        *store.Store
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *app.AuthService, loans *app.LoanService, verification *app.VerificationService, st *store.Store) *Handler {
	return &Handler{auth: auth, loans: loans, verification: verification, store: st}
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotEligible):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrLoanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAmount):
		status = http.StatusBadRequest
	}
	respondWithJSON(w, status, map[string]string{"error": err.Error()})
}

// handleLogin authenticates the demo credentials and returns the user with a
// bearer token.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// handleLogout clears the session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout()
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleGetMe returns the session user.
func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := h.store.User()
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// handleStartKYC kicks off the staged KYC flow.
func (h *Handler) handleStartKYC(w http.ResponseWriter, r *http.Request) {
	if err := h.verification.StartKYC(); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// handleKYCStatus reports KYC flow progress alongside the user's current
// status.
func (h *Handler) handleKYCStatus(w http.ResponseWriter, r *http.Request) {
	user := h.store.User()
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resp := map[string]interface{}{
		"kyc_status":   user.KYCStatus,
		"kyc_verified": user.KYCVerified,
	}
	if progress, ok := h.verification.Progress(app.FlowKYC); ok {
		resp["progress"] = progress
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// handleLinkBankAccount records an account and starts penny-drop
// verification.
func (h *Handler) handleLinkBankAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountHolderName string `json:"account_holder_name"`
		AccountNumber     string `json:"account_number"`
		IFSCCode          string `json:"ifsc_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.verification.LinkBankAccount(app.LinkBankAccountInput{
		AccountHolderName: req.AccountHolderName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, account)
}

// handleListBankAccounts returns the linked accounts.
func (h *Handler) handleListBankAccounts(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.BankAccounts())
}

// handleApplyLoan validates and creates a loan application.
func (h *Handler) handleApplyLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount       decimal.Decimal `json:"amount"`
		TenureMonths int             `json:"tenure_months"`
		Purpose      string          `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := h.loans.Apply(app.ApplyInput{
		Amount:       req.Amount,
		TenureMonths: req.TenureMonths,
		Purpose:      req.Purpose,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, loan)
}

// handleListLoans returns all loans in the session.
func (h *Handler) handleListLoans(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Loans())
}

// handleGetLoan returns a single loan.
func (h *Handler) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	loan, ok := h.store.LoanByID(chi.URLParam(r, "loanID"))
	if !ok {
		respondWithError(w, domain.ErrLoanNotFound)
		return
	}
	respondWithJSON(w, http.StatusOK, loan)
}

// handleConfirmCollateral starts the staged deposit-detection and payout
// flow for a pending loan.
func (h *Handler) handleConfirmCollateral(w http.ResponseWriter, r *http.Request) {
	if err := h.verification.StartDisbursement(chi.URLParam(r, "loanID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// handleRepayLoan applies a repayment to an active loan.
func (h *Handler) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := h.loans.Repay(chi.URLParam(r, "loanID"), req.Amount)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, loan)
}

// handlePortfolio returns the aggregate position across active loans.
func (h *Handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.loans.Portfolio())
}

// handleListTransactions returns the ledger, newest first.
func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Transactions())
}

// handleListNotifications returns notifications, newest first.
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Notifications())
}

// handleMarkNotificationRead flags a notification identity as read.
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	h.store.MarkNotificationRead(chi.URLParam(r, "notificationID"))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleGetPrice returns the current BTC/INR price.
func (h *Handler) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]decimal.Decimal{"btc_price": h.store.BTCPrice()})
}

// handleSimulate answers what-if queries against the current price. Exactly
// one of ?price= or ?ltv= drives the calculation; the response carries both
// sides of the relationship plus the narrative band.
func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	sim, err := ltv.NewSimulator(h.store.BTCPrice())
	if err != nil {
		respondWithError(w, err)
		return
	}

	priceParam := r.URL.Query().Get("price")
	ltvParam := r.URL.Query().Get("ltv")

	var simulatedLTV, simulatedPrice decimal.Decimal
	switch {
	case priceParam != "" && ltvParam == "":
		price, perr := decimal.NewFromString(priceParam)
		if perr != nil {
			respondWithError(w, domain.ErrInvalidInput)
			return
		}
		simulatedLTV, err = sim.LTVForPrice(price)
		simulatedPrice = price
	case ltvParam != "" && priceParam == "":
		target, perr := decimal.NewFromString(ltvParam)
		if perr != nil {
			respondWithError(w, domain.ErrInvalidInput)
			return
		}
		simulatedPrice, err = sim.PriceForLTV(target)
		simulatedLTV = target
	default:
		respondWithError(w, domain.ErrInvalidInput)
		return
	}
	if err != nil {
		respondWithError(w, err)
		return
	}

	outlook := ltv.OutlookFor(simulatedLTV)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"base_price": sim.BasePrice(),
		"price":      simulatedPrice,
		"ltv":        simulatedLTV,
		"outlook":    outlook,
		"narrative":  outlook.Narrative(),
		"status":     ltv.StatusFor(simulatedLTV),
	})
}
