package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/prorate"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
	upgradeservice "github.com/magabrotheeeer/prorated-billing/internal/services/upgrade"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Preview(ctx context.Context, user models.User, newPlanID int) (*models.UpgradeQuote, error) {
	args := m.Called(ctx, user, newPlanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UpgradeQuote), args.Error(1)
}

func (m *MockService) Upgrade(ctx context.Context, user models.User, newPlanID int) (*models.UpgradeResult, error) {
	args := m.Called(ctx, user, newPlanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UpgradeResult), args.Error(1)
}

func (m *MockService) ConfirmPayment(ctx context.Context, paymentID string) (upgradeservice.Outcome, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(upgradeservice.Outcome), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var jan = models.User{ID: 42, Email: "jan@example.nl"}

func withUser(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithUser(req.Context(), jan))
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{fmt.Errorf("op: %w: %w", upgradeservice.ErrUpgradeInProgress, errors.New("lock is held")), http.StatusConflict},
		{fmt.Errorf("op: %w", upgradeservice.ErrStaleUpgrade), http.StatusConflict},
		{fmt.Errorf("op: %w: %w", upgradeservice.ErrGatewayUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{upgradeservice.ErrCustomerNotFound, http.StatusNotFound},
		{upgradeservice.ErrPlanNotFound, http.StatusNotFound},
		{prorate.ErrInvalidUpgradeTarget, http.StatusBadRequest},
		{prorate.ErrNoActiveSubscription, http.StatusBadRequest},
		{prorate.ErrMissingBillingPeriod, http.StatusBadRequest},
		{prorate.ErrSubscriptionExpired, http.StatusBadRequest},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
		{fmt.Errorf("upgrade.Upgrade: acquire lock: %w", errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := errorStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotContains(t, msg, "pq:")
		})
	}
}

func TestPreviewHandler(t *testing.T) {
	quote := &models.UpgradeQuote{
		Calculation: models.ProRatedCalculation{
			RemainingDays:     10,
			TotalDaysInPeriod: 30,
			UnusedAmount:      decimal.RequireFromString("9.67"),
			FinalAmountToPay:  decimal.RequireFromString("49.33"),
		},
		Description:     "Upgrade van Basic naar Professional - €49.33 (€9.67 credit toegepast)",
		PaymentRequired: true,
	}

	tests := []struct {
		name           string
		query          string
		authorized     bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "success",
			query:      "?planId=2",
			authorized: true,
			setupMock: func(m *MockService) {
				m.On("Preview", mock.Anything, jan, 2).Return(quote, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"final_amount_to_pay":"49.33"`,
		},
		{
			name:           "unauthorized",
			query:          "?planId=2",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "missing planId",
			authorized:     true,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"planId must be an integer"`,
		},
		{
			name:           "negative planId",
			query:          "?planId=-1",
			authorized:     true,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"field PlanID must be greater than 0"`,
		},
		{
			name:       "downgrade rejected",
			query:      "?planId=1",
			authorized: true,
			setupMock: func(m *MockService) {
				m.On("Preview", mock.Anything, jan, 1).Return(nil, prorate.ErrInvalidUpgradeTarget).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"new plan must be more expensive than the current plan"`,
		},
		{
			name:       "customer missing",
			query:      "?planId=2",
			authorized: true,
			setupMock: func(m *MockService) {
				m.On("Preview", mock.Anything, jan, 2).Return(nil, upgradeservice.ErrCustomerNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"customer not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrade"+tt.query, nil)
			if tt.authorized {
				req = withUser(req)
			}
			rec := httptest.NewRecorder()

			NewPreview(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "paid upgrade returns checkout",
			body: `{"new_plan_id":2}`,
			setupMock: func(m *MockService) {
				m.On("Upgrade", mock.Anything, jan, 2).Return(&models.UpgradeResult{
					PaymentRequired: true,
					CheckoutURL:     "https://www.mollie.com/checkout/select-method/WDqYK6vllg",
					PaymentID:       "tr_WDqYK6vllg",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"checkout_url":"https://www.mollie.com/checkout/select-method/WDqYK6vllg"`,
		},
		{
			name: "free upgrade",
			body: `{"new_plan_id":2}`,
			setupMock: func(m *MockService) {
				m.On("Upgrade", mock.Anything, jan, 2).Return(&models.UpgradeResult{PaymentRequired: false}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"payment_required":false`,
		},
		{
			name:           "invalid json",
			body:           `not a json`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing plan",
			body:           `{}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field NewPlanID is a required field"}`,
		},
		{
			name: "upgrade in progress",
			body: `{"new_plan_id":2}`,
			setupMock: func(m *MockService) {
				m.On("Upgrade", mock.Anything, jan, 2).
					Return(nil, fmt.Errorf("upgrade.Upgrade: %w: %w", upgradeservice.ErrUpgradeInProgress, errors.New("lock is held"))).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"another upgrade is in progress"}`,
		},
		{
			name: "gateway down",
			body: `{"new_plan_id":2}`,
			setupMock: func(m *MockService) {
				m.On("Upgrade", mock.Anything, jan, 2).Return(nil, upgradeservice.ErrGatewayUnavailable).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"Error","error":"payment provider unavailable, try again later"}`,
		},
		{
			name: "internal error hides details",
			body: `{"new_plan_id":2}`,
			setupMock: func(m *MockService) {
				m.On("Upgrade", mock.Anything, jan, 2).Return(nil, errors.New("strapi: 500 secret stack")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/upgrade", strings.NewReader(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			NewCreate(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if strings.HasPrefix(tt.expectedBody, "{") {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestWebhookHandler(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "applied",
			form: url.Values{"id": {"tr_WDqYK6vllg"}},
			setupMock: func(m *MockService) {
				m.On("ConfirmPayment", mock.Anything, "tr_WDqYK6vllg").Return(upgradeservice.OutcomeApplied, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"outcome":"applied"}}`,
		},
		{
			name: "ignored payment still acknowledged",
			form: url.Values{"id": {"tr_other"}},
			setupMock: func(m *MockService) {
				m.On("ConfirmPayment", mock.Anything, "tr_other").Return(upgradeservice.OutcomeIgnored, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"outcome":"ignored"}}`,
		},
		{
			name:           "missing id",
			form:           url.Values{},
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"payment id is required"}`,
		},
		{
			name: "stale upgrade",
			form: url.Values{"id": {"tr_2"}},
			setupMock: func(m *MockService) {
				m.On("ConfirmPayment", mock.Anything, "tr_2").Return(upgradeservice.Outcome(""), upgradeservice.ErrStaleUpgrade).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"plan changed since the payment was created"}`,
		},
		{
			name: "stale redelivery acknowledged",
			form: url.Values{"id": {"tr_2"}},
			setupMock: func(m *MockService) {
				m.On("ConfirmPayment", mock.Anything, "tr_2").Return(upgradeservice.OutcomeStale, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"outcome":"stale"}}`,
		},
		{
			name: "gateway down asks for retry",
			form: url.Values{"id": {"tr_3"}},
			setupMock: func(m *MockService) {
				m.On("ConfirmPayment", mock.Anything, "tr_3").Return(upgradeservice.Outcome(""), upgradeservice.ErrGatewayUnavailable).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"Error","error":"payment provider unavailable, try again later"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook-upgrade", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			NewWebhook(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
