package models

import "github.com/shopspring/decimal"

// ProRatedCalculation - результат расчёта стоимости апгрейда.
// Не сохраняется, пересчитывается по запросу.
type ProRatedCalculation struct {
	CurrentPlan        Plan            `json:"current_plan"`
	NewPlan            Plan            `json:"new_plan"`
	RemainingDays      int             `json:"remaining_days"`
	TotalDaysInPeriod  int             `json:"total_days_in_period"`
	UnusedAmount       decimal.Decimal `json:"unused_amount"`
	UpgradeCost        decimal.Decimal `json:"upgrade_cost"`
	FinalAmountToPay   decimal.Decimal `json:"final_amount_to_pay"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// IsFree сообщает, что апгрейд не требует оплаты.
func (c ProRatedCalculation) IsFree() bool {
	return c.FinalAmountToPay.IsZero()
}

// UpgradeQuote - ответ предпросмотра апгрейда.
type UpgradeQuote struct {
	Calculation     ProRatedCalculation `json:"pro_rated_calculation"`
	Description     string              `json:"description"`
	PaymentRequired bool                `json:"payment_required"`
}

// UpgradeResult - результат запроса на апгрейд. Для платного апгрейда
// содержит ссылку на оплату и идентификатор платежа.
type UpgradeResult struct {
	Calculation     ProRatedCalculation `json:"pro_rated_calculation"`
	Description     string              `json:"description"`
	PaymentRequired bool                `json:"payment_required"`
	CheckoutURL     string              `json:"checkout_url,omitempty"`
	PaymentID       string              `json:"payment_id,omitempty"`
}
