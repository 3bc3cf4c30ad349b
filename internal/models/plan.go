// Package models содержит доменные структуры биллинга: тарифные планы,
// клиентов с текущим расчётным периодом, результат pro-rated расчёта
// и записи, которые сохраняются при оплате апгрейда.
package models

import "github.com/shopspring/decimal"

// BillingPeriod описывает длительность оплаченного периода тарифа.
type BillingPeriod string

const (
	// BillingMonthly - ежемесячная оплата.
	BillingMonthly BillingPeriod = "monthly"
	// BillingYearly - ежегодная оплата.
	BillingYearly BillingPeriod = "yearly"
)

// Plan представляет тарифный план. Цена указана в EUR за один полный период.
type Plan struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	BillingPeriod BillingPeriod   `json:"billing_period,omitempty"`
	SubText       string          `json:"sub_text,omitempty"`
	Featured      bool            `json:"featured,omitempty"`
}
