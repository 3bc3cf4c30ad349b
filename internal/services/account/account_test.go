package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/prorated-billing/internal/backend"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

type CustomerSourceMock struct {
	mock.Mock
}

func (m *CustomerSourceMock) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPaymentLogs(ctx context.Context, customerID, limit, offset int) ([]*models.PaymentLog, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaymentLog), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var user = models.User{ID: 42, Email: "jan@example.nl"}

func TestService_Customer(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*CustomerSourceMock)
		expectedID    int
		expectedError error
	}{
		{
			name: "found",
			setupMocks: func(c *CustomerSourceMock) {
				c.On("GetCustomerByEmail", mock.Anything, "jan@example.nl").Return(&models.Customer{ID: 7}, nil).Once()
			},
			expectedID: 7,
		},
		{
			name: "not found",
			setupMocks: func(c *CustomerSourceMock) {
				c.On("GetCustomerByEmail", mock.Anything, "jan@example.nl").Return(nil, backend.ErrNotFound).Once()
			},
			expectedError: ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := new(CustomerSourceMock)
			tt.setupMocks(customers)
			svc := New(customers, new(MockRepository), newNoopLogger())

			customer, err := svc.Customer(context.Background(), user)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, customer)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, customer.ID)
			}
			customers.AssertExpectations(t)
		})
	}
}

func TestService_Payments(t *testing.T) {
	entries := []*models.PaymentLog{
		{ID: 2, CustomerID: 7, PaymentType: models.PaymentTypeUpgradeProrated, AmountPaid: decimal.RequireFromString("49.33")},
	}

	tests := []struct {
		name          string
		limit         int
		offset        int
		wantLimit     int
		wantOffset    int
		repoResult    []*models.PaymentLog
		repoErr       error
		expectedLen   int
		expectedError bool
	}{
		{name: "default limit", limit: 0, offset: 0, wantLimit: 20, wantOffset: 0, repoResult: entries, expectedLen: 1},
		{name: "limit capped", limit: 500, offset: 10, wantLimit: 100, wantOffset: 10, repoResult: entries, expectedLen: 1},
		{name: "negative offset", limit: 5, offset: -3, wantLimit: 5, wantOffset: 0, repoResult: nil, expectedLen: 0},
		{name: "repository error", limit: 5, offset: 0, wantLimit: 5, wantOffset: 0, repoErr: errors.New("db down"), expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := new(CustomerSourceMock)
			repo := new(MockRepository)
			customers.On("GetCustomerByEmail", mock.Anything, "jan@example.nl").Return(&models.Customer{ID: 7}, nil).Once()
			if tt.repoErr != nil {
				repo.On("ListPaymentLogs", mock.Anything, 7, tt.wantLimit, tt.wantOffset).Return(nil, tt.repoErr).Once()
			} else {
				repo.On("ListPaymentLogs", mock.Anything, 7, tt.wantLimit, tt.wantOffset).Return(tt.repoResult, nil).Once()
			}
			svc := New(customers, repo, newNoopLogger())

			logs, err := svc.Payments(context.Background(), user, tt.limit, tt.offset)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, logs)
				assert.Len(t, logs, tt.expectedLen)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Payments_CustomerMissing(t *testing.T) {
	customers := new(CustomerSourceMock)
	repo := new(MockRepository)
	customers.On("GetCustomerByEmail", mock.Anything, "jan@example.nl").Return(nil, backend.ErrNotFound).Once()
	svc := New(customers, repo, newNoopLogger())

	_, err := svc.Payments(context.Background(), user, 10, 0)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	repo.AssertNotCalled(t, "ListPaymentLogs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
