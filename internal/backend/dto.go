package backend

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

type listResponse[T any] struct {
	Data []T `json:"data"`
}

type itemResponse[T any] struct {
	Data *T `json:"data"`
}

type planDTO struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	BillingPeriod string          `json:"billing_period"`
	SubText       string          `json:"sub_text"`
	Featured      bool            `json:"featured"`
}

type customerDTO struct {
	ID                    int      `json:"id"`
	UserID                int      `json:"user_id"`
	UserEmail             string   `json:"user_email"`
	Plan                  *planDTO `json:"plan"`
	SubscriptionStatus    string   `json:"subscription_status"`
	SubscriptionStartDate string   `json:"subscription_start_date"`
	SubscriptionEndDate   string   `json:"subscription_end_date"`
	MollieCustomerID      string   `json:"mollie_customer_id"`
}

type updateCustomerRequest struct {
	Data updateCustomerData `json:"data"`
}

type updateCustomerData struct {
	Plan                  int    `json:"plan"`
	SubscriptionStatus    string `json:"subscription_status"`
	SubscriptionStartDate string `json:"subscription_start_date"`
	SubscriptionEndDate   string `json:"subscription_end_date"`
	LastPaymentDate       string `json:"last_payment_date"`
	CreditsAvailable      int    `json:"credits_available"`
	// Пусто при бесплатной смене плана, чтобы не затереть прежнюю сумму.
	TotalPaid *decimal.Decimal `json:"total_paid,omitempty"`
}

func (p planDTO) toModel() models.Plan {
	return models.Plan{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		BillingPeriod: models.BillingPeriod(p.BillingPeriod),
		SubText:       p.SubText,
		Featured:      p.Featured,
	}
}

func (c customerDTO) toModel(loc *time.Location) (*models.Customer, error) {
	start, err := parseDate(c.SubscriptionStartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("subscription_start_date: %w", err)
	}
	end, err := parseDate(c.SubscriptionEndDate, loc)
	if err != nil {
		return nil, fmt.Errorf("subscription_end_date: %w", err)
	}

	customer := &models.Customer{
		ID:                    c.ID,
		UserID:                c.UserID,
		UserEmail:             c.UserEmail,
		SubscriptionStatus:    models.SubscriptionStatus(c.SubscriptionStatus),
		SubscriptionStartDate: start,
		SubscriptionEndDate:   end,
		MollieCustomerID:      c.MollieCustomerID,
	}
	if c.Plan != nil {
		customer.Plan = c.Plan.toModel()
	}
	return customer, nil
}

// parseDate разбирает дату из CMS. Дата без времени означает полночь в поясе loc,
// полные временные метки принимаются в RFC 3339. Пустая строка - отсутствие даты.
func parseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
