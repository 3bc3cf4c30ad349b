package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutStatus - состояние оплаты апгрейда.
type CheckoutStatus string

const (
	// CheckoutPending - платёж создан, оплата ещё не применена.
	CheckoutPending CheckoutStatus = "pending"
	// CheckoutApplied - план клиента сменён по этому платежу.
	CheckoutApplied CheckoutStatus = "applied"
	// CheckoutStale - план клиента изменился после создания платежа; нужен ручной возврат.
	CheckoutStale CheckoutStatus = "stale"
)

// UpgradeCheckout - снимок расчёта, зафиксированный в момент создания платежа.
// При подтверждении оплаты применяется именно он, расчёт повторно не выполняется.
type UpgradeCheckout struct {
	PaymentID      string          `json:"payment_id"`
	CustomerID     int             `json:"customer_id"`
	UserID         int             `json:"user_id"`
	OriginalPlanID int             `json:"original_plan_id"`
	NewPlanID      int             `json:"new_plan_id"`
	PeriodEnd      time.Time       `json:"period_end"`
	UnusedAmount   decimal.Decimal `json:"unused_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	AmountMinor    int64           `json:"amount_minor"`
	Description    string          `json:"description"`
	Status         CheckoutStatus  `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
