// Package account отдаёт пользователю его биллинговую запись и журнал платежей.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/prorated-billing/internal/backend"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// ErrCustomerNotFound - у пользователя нет биллинговой записи.
var ErrCustomerNotFound = errors.New("customer not found")

const (
	defaultLimit = 20
	maxLimit     = 100
)

// CustomerSource ищет клиента в CMS.
type CustomerSource interface {
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// PaymentRepository читает журнал платежей.
type PaymentRepository interface {
	ListPaymentLogs(ctx context.Context, customerID, limit, offset int) ([]*models.PaymentLog, error)
}

type Service struct {
	customers CustomerSource
	repo      PaymentRepository
	log       *slog.Logger
}

func New(customers CustomerSource, repo PaymentRepository, log *slog.Logger) *Service {
	return &Service{
		customers: customers,
		repo:      repo,
		log:       log,
	}
}

// Customer возвращает биллинговую запись пользователя.
func (s *Service) Customer(ctx context.Context, user models.User) (*models.Customer, error) {
	const op = "account.Customer"

	customer, err := s.customers.GetCustomerByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customer, nil
}

// Payments возвращает страницу журнала платежей пользователя.
// limit вне диапазона 1..100 заменяется значением по умолчанию или максимумом.
func (s *Service) Payments(ctx context.Context, user models.User, limit, offset int) ([]*models.PaymentLog, error) {
	const op = "account.Payments"

	customer, err := s.Customer(ctx, user)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := s.repo.ListPaymentLogs(ctx, customer.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if logs == nil {
		logs = []*models.PaymentLog{}
	}
	return logs, nil
}
