package upgrade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/metrics"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
	"github.com/magabrotheeeer/prorated-billing/internal/paymentprovider"
	"github.com/magabrotheeeer/prorated-billing/internal/storage"
)

// Outcome - результат обработки уведомления об оплате.
type Outcome string

const (
	// OutcomeIgnored - платёж не оплачен или не относится к апгрейду.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeApplied - план клиента сменён.
	OutcomeApplied Outcome = "applied"
	// OutcomeAlreadyApplied - платёж уже был применён раньше.
	OutcomeAlreadyApplied Outcome = "already_applied"
	// OutcomeStale - платёж уже отклонён как устаревший и ждёт ручного возврата.
	OutcomeStale Outcome = "stale"
)

// ConfirmPayment применяет оплаченный апгрейд по идентификатору платежа.
// Повторные уведомления о том же платеже не меняют план второй раз.
// Если план клиента изменился после создания платежа, апгрейд не применяется,
// платёж записывается для ручного возврата и возвращается ErrStaleUpgrade.
// Повторные уведомления об уже отклонённом платеже возвращают OutcomeStale.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID string) (Outcome, error) {
	const op = "upgrade.ConfirmPayment"
	log := s.log.With(slog.String("op", op), slog.String("payment_id", paymentID))

	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentprovider.ErrPaymentNotFound) {
			log.Warn("unknown payment in webhook")
			return OutcomeIgnored, nil
		}
		return "", fmt.Errorf("%s: %w: %w", op, ErrGatewayUnavailable, err)
	}
	if !payment.IsPaid() {
		log.Info("payment not paid yet", slog.String("status", payment.Status))
		return OutcomeIgnored, nil
	}

	var meta checkoutMetadata
	if err := payment.DecodeMetadata(&meta); err != nil {
		log.Info("payment metadata is not an upgrade snapshot", sl.Err(err))
		return OutcomeIgnored, nil
	}
	if meta.UpgradeType != upgradeTypeProRated {
		return OutcomeIgnored, nil
	}

	userID, err := strconv.Atoi(meta.UserID)
	if err != nil {
		log.Error("invalid userId in payment metadata", sl.Err(err))
		s.saveFailed(ctx, payment.ID, 0, "invalid payment metadata: "+err.Error(), meta, log)
		return OutcomeIgnored, nil
	}

	release, err := s.lock(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer s.unlock(release, log)

	checkout, err := s.loadCheckout(ctx, payment, meta)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.Int("customer_id", checkout.CustomerID))

	switch checkout.Status {
	case models.CheckoutApplied:
		log.Info("payment already applied")
		return OutcomeAlreadyApplied, nil
	case models.CheckoutStale:
		log.Info("payment already marked stale")
		return OutcomeStale, nil
	}

	customer, err := s.backend.GetCustomer(ctx, checkout.CustomerID)
	if err != nil {
		return "", fmt.Errorf("%s: get customer: %w", op, err)
	}

	if !snapshotMatches(customer, checkout) {
		s.markStale(ctx, checkout, meta, log)
		return "", fmt.Errorf("%s: %w", op, ErrStaleUpgrade)
	}

	newPlan, err := s.backend.GetPlan(ctx, checkout.NewPlanID)
	if err != nil {
		return "", fmt.Errorf("%s: get plan: %w", op, err)
	}

	now := s.now()
	change := s.planChange(*newPlan, now)
	change.TotalPaid = checkout.FinalAmount
	if err := s.backend.SetCustomerPlan(ctx, checkout.CustomerID, change); err != nil {
		s.saveFailed(ctx, payment.ID, checkout.CustomerID, err.Error(), meta, log)
		return "", fmt.Errorf("%s: set customer plan: %w", op, err)
	}
	metrics.PlanChanges.WithLabelValues("paid").Inc()

	ok, err := s.repo.UpdateCheckoutStatus(ctx, checkout.PaymentID, models.CheckoutPending, models.CheckoutApplied)
	if err != nil || !ok {
		log.Error("failed to mark checkout applied", slog.Bool("updated", ok), sl.Err(err))
	}

	log.Info("paid upgrade applied",
		slog.Int("new_plan_id", checkout.NewPlanID),
		sl.Amount("amount", checkout.FinalAmount),
		sl.Amount("credit", checkout.UnusedAmount),
	)

	s.record(ctx, models.PaymentLog{
		CustomerID:     checkout.CustomerID,
		PaymentID:      payment.ID,
		PaymentType:    models.PaymentTypeUpgradeProrated,
		OriginalPlanID: checkout.OriginalPlanID,
		NewPlanID:      checkout.NewPlanID,
		AmountPaid:     checkout.FinalAmount,
		CreditApplied:  checkout.UnusedAmount,
		PaymentDate:    now,
		GatewayStatus:  payment.Status,
	}, log)

	s.notify(ctx, models.PlanUpgradedEvent{
		CustomerID:    checkout.CustomerID,
		UserEmail:     customer.UserEmail,
		OldPlanName:   customer.Plan.Name,
		NewPlanName:   newPlan.Name,
		AmountPaid:    checkout.FinalAmount,
		CreditApplied: checkout.UnusedAmount,
		PaymentID:     payment.ID,
		PeriodEnd:     change.PeriodEnd,
	}, log)

	return OutcomeApplied, nil
}

// loadCheckout читает снимок из базы, а при его отсутствии восстанавливает из metadata.
func (s *Service) loadCheckout(ctx context.Context, payment *paymentprovider.Payment, meta checkoutMetadata) (*models.UpgradeCheckout, error) {
	checkout, err := s.repo.GetCheckout(ctx, payment.ID)
	if err == nil {
		return checkout, nil
	}
	if !errors.Is(err, storage.ErrCheckoutNotFound) {
		return nil, err
	}

	amount, err := payment.Amount.Decimal()
	if err != nil {
		return nil, fmt.Errorf("payment amount: %w", err)
	}
	restored, err := meta.checkout(payment.ID, amount.Shift(2).IntPart())
	if err != nil {
		return nil, fmt.Errorf("payment metadata: %w", err)
	}
	restored.Description = payment.Description
	if err := s.repo.SaveCheckout(ctx, restored); err != nil {
		return nil, err
	}
	return &restored, nil
}

// snapshotMatches сверяет текущий план и конец периода клиента со снимком.
func snapshotMatches(customer *models.Customer, checkout *models.UpgradeCheckout) bool {
	if customer.Plan.ID != checkout.OriginalPlanID {
		return false
	}
	if customer.SubscriptionEndDate == nil {
		return false
	}
	return customer.SubscriptionEndDate.Equal(checkout.PeriodEnd)
}

func (s *Service) markStale(ctx context.Context, checkout *models.UpgradeCheckout, meta checkoutMetadata, log *slog.Logger) {
	metrics.StaleConfirmations.Inc()
	log.Warn("customer plan changed since checkout, payment needs manual refund",
		slog.Int("original_plan_id", checkout.OriginalPlanID),
		slog.Int("new_plan_id", checkout.NewPlanID),
	)
	if _, err := s.repo.UpdateCheckoutStatus(ctx, checkout.PaymentID, models.CheckoutPending, models.CheckoutStale); err != nil {
		log.Error("failed to mark checkout stale", sl.Err(err))
	}
	s.saveFailed(ctx, checkout.PaymentID, checkout.CustomerID, ErrStaleUpgrade.Error(), meta, log)
}

func (s *Service) saveFailed(ctx context.Context, paymentID string, customerID int, reason string, meta checkoutMetadata, log *slog.Logger) {
	_, err := s.repo.SaveFailedPayment(ctx, models.FailedPayment{
		PaymentID:    paymentID,
		CustomerID:   customerID,
		ErrorMessage: reason,
		PaymentData:  meta.asMap(),
		CreatedAt:    s.now(),
	})
	if err != nil {
		log.Error("failed to save failed payment", sl.Err(err))
	}
}
