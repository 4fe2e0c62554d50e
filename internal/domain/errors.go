/**
 * @description
 * Sentinel errors shared across the lending core. Handlers translate these
 * into HTTP status codes; services compare with errors.Is.
 */
package domain

import "errors"

var (
	// ErrInvalidInput is returned when pure math receives a non-positive
	// price or amount, or when an operation input fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotEligible is returned when a loan application is attempted
	// without verified KYC or a verified bank account.
	ErrNotEligible = errors.New("eligibility requirements not met")

	// ErrInvalidAmount is returned when a repayment amount is non-positive
	// or exceeds the outstanding principal.
	ErrInvalidAmount = errors.New("invalid repayment amount")

	// ErrInvalidTransition is returned when a status change is attempted
	// from an unexpected source state. The loan is left unchanged.
	ErrInvalidTransition = errors.New("invalid loan status transition")

	// ErrLoanNotFound is returned when a loan id does not exist in the
	// current session.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrFeedUnavailable is returned by the price feed client on any
	// failure. It is absorbed at the provider boundary and never surfaced
	// to the user.
	ErrFeedUnavailable = errors.New("price feed unavailable")

	// ErrInvalidCredentials is returned on a failed demo login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
