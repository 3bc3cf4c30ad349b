package paymentprovider

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Статусы платежа Mollie.
const (
	StatusOpen       = "open"
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusPaid       = "paid"
	StatusCanceled   = "canceled"
	StatusExpired    = "expired"
	StatusFailed     = "failed"
)

// Amount представляет денежную сумму в формате Mollie: значение строкой с двумя знаками.
type Amount struct {
	Currency string `json:"currency"` // валюта, например "EUR"
	Value    string `json:"value"`    // сумма, например "49.33"
}

// AmountFromMinor собирает Amount из суммы в минимальных единицах (центах).
func AmountFromMinor(minor int64, currency string) Amount {
	return Amount{
		Currency: currency,
		Value:    decimal.New(minor, -2).StringFixed(2),
	}
}

// Decimal возвращает значение суммы как decimal.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(a.Value)
}

// CreatePaymentRequest представляет запрос на создание платежа.
type CreatePaymentRequest struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description"`
	RedirectURL string `json:"redirectUrl"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
	CustomerID  string `json:"customerId,omitempty"` // cst_... если клиент уже заведён в Mollie
	Metadata    any    `json:"metadata,omitempty"`
}

// Link - ссылка из блока _links.
type Link struct {
	Href string `json:"href"`
	Type string `json:"type"`
}

// Payment представляет платёж Mollie.
type Payment struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      Amount          `json:"amount"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
	Links       struct {
		Checkout *Link `json:"checkout,omitempty"`
	} `json:"_links"`
}

// IsPaid сообщает, что платёж оплачен.
func (p *Payment) IsPaid() bool {
	return p.Status == StatusPaid
}

// CheckoutURL возвращает ссылку на страницу оплаты или пустую строку.
func (p *Payment) CheckoutURL() string {
	if p.Links.Checkout == nil {
		return ""
	}
	return p.Links.Checkout.Href
}

// DecodeMetadata разбирает metadata платежа в v.
// Для платежа без metadata v остаётся нетронутым.
func (p *Payment) DecodeMetadata(v any) error {
	if len(p.Metadata) == 0 || string(p.Metadata) == "null" {
		return nil
	}
	return json.Unmarshal(p.Metadata, v)
}

type errorResponse struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
