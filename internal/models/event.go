package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanUpgradedEvent публикуется в очередь после успешной смены плана.
type PlanUpgradedEvent struct {
	EventID       string          `json:"event_id"`
	CustomerID    int             `json:"customer_id"`
	UserEmail     string          `json:"user_email"`
	OldPlanName   string          `json:"old_plan_name"`
	NewPlanName   string          `json:"new_plan_name"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	CreditApplied decimal.Decimal `json:"credit_applied"`
	PaymentID     string          `json:"payment_id,omitempty"`
	PeriodEnd     time.Time       `json:"period_end"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
