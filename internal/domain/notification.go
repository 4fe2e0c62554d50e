/**
 * @description
 * In-app notifications. Risk alerts emitted by the scanner use a
 * deterministic identifier of the form "{kind}-{loanID}" so that repeated
 * alerts for the same loan and condition share a stable identity and can be
 * deduplicated by consumers.
 */
package domain

import (
	"fmt"
	"time"
)

// NotificationType is the display severity of a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationDanger  NotificationType = "danger"
	NotificationSuccess NotificationType = "success"
)

// Notification is a single in-app alert shown to the user.
type Notification struct {
	ID      string           `json:"id"`
	UserID  string           `json:"user_id"`
	LoanID  string           `json:"loan_id,omitempty"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Read    bool             `json:"read"`
	Date    time.Time        `json:"date"`
}

// Risk alert kinds used to build deterministic notification identifiers.
const (
	RiskKindMarginCall  = "margin-call"
	RiskKindLiquidation = "liquidation"
)

// RiskNotificationID returns the deterministic identifier for a risk alert,
// e.g. "margin-call-LN20260042".
func RiskNotificationID(kind, loanID string) string {
	return fmt.Sprintf("%s-%s", kind, loanID)
}
