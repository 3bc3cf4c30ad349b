package planlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plan), args.Error(1)
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return([]models.Plan{
					{ID: 1, Name: "Basic", Price: decimal.NewFromInt(29)},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"list_count":1,"plans":[{"id":1,"name":"Basic","price":"29"}]}}`,
		},
		{
			name: "backend error",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return(nil, errors.New("strapi down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			New(slog.New(slog.DiscardHandler), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
