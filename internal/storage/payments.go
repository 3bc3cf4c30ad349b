package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// SavePaymentLog добавляет запись в журнал платежей.
func (s *Storage) SavePaymentLog(ctx context.Context, l models.PaymentLog) (int, error) {
	const op = "storage.SavePaymentLog"

	var paymentID *string
	if l.PaymentID != "" {
		paymentID = &l.PaymentID
	}

	query := `INSERT INTO payment_logs
		(customer_id, payment_id, payment_type, original_plan_id, new_plan_id,
		 amount_paid, credit_applied, payment_date, gateway_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query,
		l.CustomerID,
		paymentID,
		l.PaymentType,
		l.OriginalPlanID,
		l.NewPlanID,
		l.AmountPaid,
		l.CreditApplied,
		l.PaymentDate,
		l.GatewayStatus,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListPaymentLogs возвращает журнал платежей клиента, новые записи первыми.
func (s *Storage) ListPaymentLogs(ctx context.Context, customerID, limit, offset int) ([]*models.PaymentLog, error) {
	const op = "storage.ListPaymentLogs"

	query := `SELECT id, customer_id, COALESCE(payment_id, ''), payment_type, original_plan_id, new_plan_id,
		amount_paid, credit_applied, payment_date, gateway_status
		FROM payment_logs
		WHERE customer_id = $1
		ORDER BY payment_date DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var logs []*models.PaymentLog
	for rows.Next() {
		var l models.PaymentLog
		if err := rows.Scan(
			&l.ID,
			&l.CustomerID,
			&l.PaymentID,
			&l.PaymentType,
			&l.OriginalPlanID,
			&l.NewPlanID,
			&l.AmountPaid,
			&l.CreditApplied,
			&l.PaymentDate,
			&l.GatewayStatus,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return logs, nil
}

// SaveFailedPayment сохраняет оплаченный платёж, который требует ручной обработки.
func (s *Storage) SaveFailedPayment(ctx context.Context, f models.FailedPayment) (int, error) {
	const op = "storage.SaveFailedPayment"

	data, err := json.Marshal(f.PaymentData)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if f.PaymentData == nil {
		data = []byte("{}")
	}

	query := `INSERT INTO failed_payments (payment_id, customer_id, error_message, payment_data)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id`
	var id int
	if err := s.DB.QueryRowContext(ctx, query, f.PaymentID, f.CustomerID, f.ErrorMessage, string(data)).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// CountFailedPayments возвращает число необработанных платежей по платежу paymentID.
func (s *Storage) CountFailedPayments(ctx context.Context, paymentID string) (int, error) {
	const op = "storage.CountFailedPayments"

	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM failed_payments WHERE payment_id = $1`, paymentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
