package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// SaveCheckout сохраняет снимок расчёта для созданного платежа.
// Повторное сохранение того же платежа ничего не меняет.
func (s *Storage) SaveCheckout(ctx context.Context, c models.UpgradeCheckout) error {
	const op = "storage.SaveCheckout"

	status := c.Status
	if status == "" {
		status = models.CheckoutPending
	}

	query := `INSERT INTO upgrade_checkouts
		(payment_id, customer_id, user_id, original_plan_id, new_plan_id, period_end,
		 unused_amount, final_amount, amount_minor, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (payment_id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query,
		c.PaymentID,
		c.CustomerID,
		c.UserID,
		c.OriginalPlanID,
		c.NewPlanID,
		c.PeriodEnd,
		c.UnusedAmount,
		c.FinalAmount,
		c.AmountMinor,
		c.Description,
		string(status),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetCheckout возвращает снимок по идентификатору платежа.
func (s *Storage) GetCheckout(ctx context.Context, paymentID string) (*models.UpgradeCheckout, error) {
	const op = "storage.GetCheckout"

	query := `SELECT payment_id, customer_id, user_id, original_plan_id, new_plan_id, period_end,
		unused_amount, final_amount, amount_minor, description, status, created_at, updated_at
		FROM upgrade_checkouts
		WHERE payment_id = $1`

	var (
		c      models.UpgradeCheckout
		status string
	)
	err := s.DB.QueryRowContext(ctx, query, paymentID).Scan(
		&c.PaymentID,
		&c.CustomerID,
		&c.UserID,
		&c.OriginalPlanID,
		&c.NewPlanID,
		&c.PeriodEnd,
		&c.UnusedAmount,
		&c.FinalAmount,
		&c.AmountMinor,
		&c.Description,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCheckoutNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Status = models.CheckoutStatus(status)
	return &c, nil
}

// UpdateCheckoutStatus переводит снимок из статуса from в статус to.
// Возвращает false, если снимок уже не в статусе from.
func (s *Storage) UpdateCheckoutStatus(ctx context.Context, paymentID string, from, to models.CheckoutStatus) (bool, error) {
	const op = "storage.UpdateCheckoutStatus"

	query := `UPDATE upgrade_checkouts
		SET status = $3, updated_at = now()
		WHERE payment_id = $1 AND status = $2`
	res, err := s.DB.ExecContext(ctx, query, paymentID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}
