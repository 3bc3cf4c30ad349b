package upgrade

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/prorated-billing/internal/cache"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
	"github.com/magabrotheeeer/prorated-billing/internal/paymentprovider"
)

type BackendMock struct{ mock.Mock }

func (m *BackendMock) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *BackendMock) GetCustomer(ctx context.Context, customerID int) (*models.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *BackendMock) GetPlan(ctx context.Context, planID int) (*models.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *BackendMock) SetCustomerPlan(ctx context.Context, customerID int, change models.PlanChange) error {
	return m.Called(ctx, customerID, change).Error(0)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreatePayment(ctx context.Context, req paymentprovider.CreatePaymentRequest) (*paymentprovider.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Payment), args.Error(1)
}

func (m *GatewayMock) GetPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Payment), args.Error(1)
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) SaveCheckout(ctx context.Context, c models.UpgradeCheckout) error {
	return m.Called(ctx, c).Error(0)
}

func (m *RepoMock) GetCheckout(ctx context.Context, paymentID string) (*models.UpgradeCheckout, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UpgradeCheckout), args.Error(1)
}

func (m *RepoMock) UpdateCheckoutStatus(ctx context.Context, paymentID string, from, to models.CheckoutStatus) (bool, error) {
	args := m.Called(ctx, paymentID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) SavePaymentLog(ctx context.Context, l models.PaymentLog) (int, error) {
	args := m.Called(ctx, l)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) SaveFailedPayment(ctx context.Context, f models.FailedPayment) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, event any) error {
	return m.Called(ctx, event).Error(0)
}

// fakeLocker держит блокировки в памяти. failure имитирует недоступный Redis.
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	failure  error
	acquired int
	released int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failure != nil {
		return nil, fmt.Errorf("cache.Acquire: %w", l.failure)
	}
	if l.held[key] {
		return nil, fmt.Errorf("cache.Acquire: %s: %w", key, cache.ErrLocked)
	}
	l.held[key] = true
	l.acquired++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released++
		return nil
	}, nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}
