package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus - состояние подписки клиента.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusInactive  SubscriptionStatus = "inactive"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusTrial     SubscriptionStatus = "trial"
)

// Customer представляет биллинговую запись пользователя.
// SubscriptionStartDate и SubscriptionEndDate - границы текущего оплаченного периода,
// а не время жизни аккаунта. Любая из дат может отсутствовать (nil).
type Customer struct {
	ID                    int                `json:"id"`
	UserID                int                `json:"user_id"`
	UserEmail             string             `json:"user_email"`
	Plan                  Plan               `json:"plan"`
	SubscriptionStatus    SubscriptionStatus `json:"subscription_status"`
	SubscriptionStartDate *time.Time         `json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time         `json:"subscription_end_date,omitempty"`
	MollieCustomerID      string             `json:"mollie_customer_id,omitempty"`
}

// PlanChange описывает запись нового плана и нового расчётного периода клиенту.
type PlanChange struct {
	PlanID          int
	PeriodStart     time.Time
	PeriodEnd       time.Time
	LastPaymentDate time.Time
	// TotalPaid - сумма оплаченного апгрейда, ноль при бесплатной смене плана.
	TotalPaid decimal.Decimal
}
