package upgrade

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// upgradeTypeProRated отличает платежи апгрейда от прочих платежей аккаунта Mollie.
const upgradeTypeProRated = "pro-rated"

// checkoutMetadata - снимок расчёта в metadata платежа. Все значения строки,
// как их хранит Mollie.
type checkoutMetadata struct {
	UpgradeType    string `json:"upgradeType"`
	CustomerID     string `json:"customerId"`
	UserID         string `json:"userId"`
	UserEmail      string `json:"userEmail,omitempty"`
	OriginalPlanID string `json:"originalPlanId"`
	PlanID         string `json:"planId"`
	PeriodEnd      string `json:"periodEnd"`
	UnusedAmount   string `json:"unusedAmount"`
	FinalAmount    string `json:"finalAmount"`
}

func newCheckoutMetadata(c models.UpgradeCheckout, email string) checkoutMetadata {
	return checkoutMetadata{
		UpgradeType:    upgradeTypeProRated,
		CustomerID:     strconv.Itoa(c.CustomerID),
		UserID:         strconv.Itoa(c.UserID),
		UserEmail:      email,
		OriginalPlanID: strconv.Itoa(c.OriginalPlanID),
		PlanID:         strconv.Itoa(c.NewPlanID),
		PeriodEnd:      c.PeriodEnd.Format(time.RFC3339),
		UnusedAmount:   c.UnusedAmount.StringFixed(2),
		FinalAmount:    c.FinalAmount.StringFixed(2),
	}
}

// checkout восстанавливает снимок из metadata, если в базе его нет.
func (m checkoutMetadata) checkout(paymentID string, amountMinor int64) (models.UpgradeCheckout, error) {
	var (
		c   models.UpgradeCheckout
		err error
	)
	c.PaymentID = paymentID
	c.AmountMinor = amountMinor
	c.Status = models.CheckoutPending

	if c.CustomerID, err = strconv.Atoi(m.CustomerID); err != nil {
		return c, fmt.Errorf("customerId: %w", err)
	}
	if c.UserID, err = strconv.Atoi(m.UserID); err != nil {
		return c, fmt.Errorf("userId: %w", err)
	}
	if c.OriginalPlanID, err = strconv.Atoi(m.OriginalPlanID); err != nil {
		return c, fmt.Errorf("originalPlanId: %w", err)
	}
	if c.NewPlanID, err = strconv.Atoi(m.PlanID); err != nil {
		return c, fmt.Errorf("planId: %w", err)
	}
	if c.PeriodEnd, err = time.Parse(time.RFC3339, m.PeriodEnd); err != nil {
		return c, fmt.Errorf("periodEnd: %w", err)
	}
	if c.UnusedAmount, err = decimal.NewFromString(m.UnusedAmount); err != nil {
		return c, fmt.Errorf("unusedAmount: %w", err)
	}
	if c.FinalAmount, err = decimal.NewFromString(m.FinalAmount); err != nil {
		return c, fmt.Errorf("finalAmount: %w", err)
	}
	return c, nil
}

func (m checkoutMetadata) asMap() map[string]string {
	return map[string]string{
		"upgradeType":    m.UpgradeType,
		"customerId":     m.CustomerID,
		"userId":         m.UserID,
		"originalPlanId": m.OriginalPlanID,
		"planId":         m.PlanID,
		"periodEnd":      m.PeriodEnd,
		"unusedAmount":   m.UnusedAmount,
		"finalAmount":    m.FinalAmount,
	}
}

func newEventID() string {
	return uuid.NewString()
}
