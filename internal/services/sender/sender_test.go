package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/smtp"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) Sender() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const paidEvent = `{
	"event_id": "0b6f",
	"customer_id": 7,
	"user_email": "jan@example.nl",
	"old_plan_name": "Basic",
	"new_plan_name": "Pro",
	"amount_paid": "49.33",
	"credit_applied": "9.67",
	"period_end": "2025-03-31T00:00:00+02:00",
	"occurred_at": "2025-03-10T10:00:00Z"
}`

func TestSenderService_SendUpgradeConfirmation(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport) *MockSMTPWriter
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - send upgrade email",
			body: []byte(paidEvent),
			setupMocks: func(t *MockTransport) *MockSMTPWriter {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				t.On("Sender").Return("billing@example.nl")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "billing@example.nl").Return(nil).Once()
				mockClient.On("Rcpt", "jan@example.nl").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
				return mockWriter
			},
			expectedError: false,
		},
		{
			name: "invalid JSON",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockTransport) *MockSMTPWriter {
				return nil
			},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "event without recipient is dropped",
			body: []byte(`{"event_id":"1","new_plan_name":"Pro"}`),
			setupMocks: func(_ *MockTransport) *MockSMTPWriter {
				return nil
			},
			expectedError: false,
		},
		{
			name: "SMTP connection error",
			body: []byte(paidEvent),
			setupMocks: func(t *MockTransport) *MockSMTPWriter {
				t.On("Sender").Return("billing@example.nl")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
				return nil
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
		{
			name: "recipient rejected",
			body: []byte(paidEvent),
			setupMocks: func(t *MockTransport) *MockSMTPWriter {
				mockClient := new(MockSMTPClient)
				t.On("Sender").Return("billing@example.nl")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "billing@example.nl").Return(nil).Once()
				mockClient.On("Rcpt", "jan@example.nl").Return(errors.New("550 no such user")).Once()
				mockClient.On("Close").Return(nil).Once()
				return nil
			},
			expectedError: true,
			errorMessage:  "550",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(newNoopLogger(), transport)

			writer := tt.setupMocks(transport)

			err := service.SendUpgradeConfirmation(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}
			if writer != nil {
				msg := string(writer.written)
				assert.Contains(t, msg, "Subject: Je abonnement is geüpgraded naar Pro")
				assert.Contains(t, msg, "€ 49,33")
				assert.Contains(t, msg, "€ 9,67")
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestUpgradeBody_Free(t *testing.T) {
	body := upgradeBody(models.PlanUpgradedEvent{
		OldPlanName:   "Basic",
		NewPlanName:   "Pro",
		AmountPaid:    decimal.Zero,
		CreditApplied: decimal.RequireFromString("30"),
		PeriodEnd:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, body, "geen extra kosten")
	assert.Contains(t, body, "€ 30,00")
	assert.Contains(t, body, "10-04-2025")
	assert.NotContains(t, body, "Betaald bedrag")
}
