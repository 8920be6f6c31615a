package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checkers   map[string]HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checks", nil, http.StatusOK, "healthy"},
		{
			"all healthy",
			map[string]HealthChecker{"chart": HealthCheckerFunc(func(context.Context) error { return nil })},
			http.StatusOK, "healthy",
		},
		{
			"one failing",
			map[string]HealthChecker{
				"chart": HealthCheckerFunc(func(context.Context) error { return errors.New("font missing") }),
				"other": HealthCheckerFunc(func(context.Context) error { return nil }),
			},
			http.StatusServiceUnavailable, "unhealthy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler(tt.checkers)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Len(t, got.Checks, len(tt.checkers))
		})
	}
}

func TestHealthHandler_ReportsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{
		"chart": HealthCheckerFunc(func(context.Context) error { return errors.New("font missing") }),
	})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var got HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "font missing", got.Checks["chart"].Message)
}

func TestLivenessAndReadiness(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}
