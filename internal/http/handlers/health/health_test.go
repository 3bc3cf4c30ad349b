package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         map[string]Checker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no dependencies",
			checks:         nil,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"status":"ok","dependencies":{}}}`,
		},
		{
			name:           "all up",
			checks:         map[string]Checker{"postgres": up, "redis": up},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"status":"ok","dependencies":{"postgres":"up","redis":"up"}}}`,
		},
		{
			name:           "redis down",
			checks:         map[string]Checker{"postgres": up, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"Error","error":"dependency unavailable","data":{"status":"degraded","dependencies":{"postgres":"up","redis":"down"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(slog.New(slog.DiscardHandler), tt.checks).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
