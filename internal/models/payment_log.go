package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы записей журнала платежей.
const (
	PaymentTypeUpgradeFree     = "upgrade_free"
	PaymentTypeUpgradeProrated = "upgrade_prorated"
)

// PaymentLog - запись аудита о применённом апгрейде.
type PaymentLog struct {
	ID             int             `json:"id"`
	CustomerID     int             `json:"customer_id"`
	PaymentID      string          `json:"payment_id,omitempty"`
	PaymentType    string          `json:"payment_type"`
	OriginalPlanID int             `json:"original_plan_id"`
	NewPlanID      int             `json:"new_plan_id"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	CreditApplied  decimal.Decimal `json:"credit_applied"`
	PaymentDate    time.Time       `json:"payment_date"`
	GatewayStatus  string          `json:"gateway_status,omitempty"`
}

// FailedPayment - оплаченный платёж, который не удалось применить.
// Нужен для ручной обработки (возврат или повторное применение).
type FailedPayment struct {
	PaymentID    string
	CustomerID   int
	ErrorMessage string
	PaymentData  map[string]string
	CreatedAt    time.Time
}
