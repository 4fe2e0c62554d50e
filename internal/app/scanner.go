/**
 * @description
 * Periodic risk scan over active loans. Each tick refreshes every active
 * loan's LTV at the current price and raises margin-call and liquidation
 * alerts past the alert thresholds.
 *
 * @notes
 * - Alert thresholds (strictly above 70 and 83) are deliberately looser than
 *   the dashboard tier breakpoints (71.59 / 83.32); alerts fire slightly
 *   before the displayed tier changes.
 * - Alerts are appended on every tick the condition holds. Consumers
 *   deduplicate by the deterministic notification id.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/ltv"
	"github.com/Vijayesvar/pledgdemo/internal/store"
	"github.com/Vijayesvar/pledgdemo/pkg/rabbitmq"
)

// RiskScanner walks active loans and raises threshold alerts.
type RiskScanner struct {
	store     *store.Store
	loans     *LoanService
	publisher rabbitmq.Publisher
	exchange  string
	logger    *slog.Logger
}

// NewRiskScanner creates a scanner. publisher may be nil; alerts are then
// recorded in the session only.
func NewRiskScanner(st *store.Store, loans *LoanService, publisher rabbitmq.Publisher, exchange string, logger *slog.Logger) *RiskScanner {
	return &RiskScanner{
		store:     st,
		loans:     loans,
		publisher: publisher,
		exchange:  exchange,
		logger:    logger,
	}
}

// Scan runs one pass over the active loans. A non-positive price skips the
// entire pass, leaving LTVs and notifications untouched.
func (r *RiskScanner) Scan(ctx context.Context) {
	price := r.store.BTCPrice()
	if price.Sign() <= 0 {
		r.logger.Warn("risk scan skipped, no usable price")
		return
	}

	for _, loan := range r.store.LoansByStatus(domain.LoanStatusActive) {
		r.loans.RecordLTV(loan.ID, price)

		refreshed, ok := r.store.LoanByID(loan.ID)
		if !ok {
			continue
		}

		switch {
		case refreshed.LTV.GreaterThan(ltv.LiquidationAlertLTV):
			r.raise(ctx, refreshed, domain.RiskKindLiquidation, domain.RiskEventLiquidation,
				domain.NotificationDanger, "Liquidation Risk",
				fmt.Sprintf("Loan %s is at liquidation risk! LTV: %s%%", refreshed.ID, formatLTV(refreshed.LTV)))
		case refreshed.LTV.GreaterThan(ltv.MarginCallAlertLTV):
			r.raise(ctx, refreshed, domain.RiskKindMarginCall, domain.RiskEventMarginCall,
				domain.NotificationWarning, "Margin Call",
				fmt.Sprintf("Loan %s is approaching margin call! LTV: %s%%", refreshed.ID, formatLTV(refreshed.LTV)))
		}
	}
}

func (r *RiskScanner) raise(ctx context.Context, loan domain.Loan, kind, routingKey string, severity domain.NotificationType, title, message string) {
	r.store.AddNotification(domain.Notification{
		ID:      domain.RiskNotificationID(kind, loan.ID),
		UserID:  loan.UserID,
		LoanID:  loan.ID,
		Title:   title,
		Message: message,
		Type:    severity,
		Read:    false,
		Date:    r.loans.now(),
	})
	r.logger.Warn("risk threshold crossed", "loan_id", loan.ID, "kind", kind, "ltv", loan.LTV)

	if r.publisher == nil {
		return
	}
	event := domain.RiskEvent{
		LoanID:    loan.ID,
		UserID:    loan.UserID,
		LTV:       loan.LTV,
		Kind:      kind,
		Message:   message,
		Timestamp: r.loans.now(),
	}
	if err := r.publisher.Publish(ctx, r.exchange, routingKey, event); err != nil {
		r.logger.Error("failed to publish risk event", "loan_id", loan.ID, "kind", kind, "error", err)
	}
}

// formatLTV renders an LTV percentage with two decimal places for alert
// copy.
func formatLTV(v decimal.Decimal) string {
	return v.StringFixed(2)
}
