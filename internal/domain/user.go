/**
 * @description
 * Core domain models for users and linked bank accounts within the Pledg demo.
 * These mirror the session document the client rehydrates on load.
 */
package domain

// KYCStatus tracks the progress of identity verification for a user.
type KYCStatus string

const (
	KYCStatusNone     KYCStatus = "none"
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

// User represents the single demo session user.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	KYCVerified bool      `json:"kyc_verified"`
	KYCStatus   KYCStatus `json:"kyc_status"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

// BankAccount is a linked payout account. Only its verification flag matters
// to the loan flow: a verified account is a prerequisite for applying.
type BankAccount struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	AccountHolderName string `json:"account_holder_name"`
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	IsPrimary         bool   `json:"is_primary"`
	IsVerified        bool   `json:"is_verified"`
}
