package observability

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

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestLiveness(t *testing.T) {
	checker := NewHealthChecker(&fakePinger{err: errors.New("store down")})

	w := httptest.NewRecorder()
	checker.Liveness(w, httptest.NewRequest("GET", "/healthz", nil))

	// Liveness ignores dependency health.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), StatusHealthy)
}

func TestReadinessHealthy(t *testing.T) {
	checker := NewHealthChecker(&fakePinger{})

	w := httptest.NewRecorder()
	checker.Readiness(w, httptest.NewRequest("GET", "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusHealthy, status.Dependencies["store"].Status)
}

func TestReadinessUnhealthy(t *testing.T) {
	checker := NewHealthChecker(&fakePinger{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	checker.Readiness(w, httptest.NewRequest("GET", "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, "connection refused", status.Dependencies["store"].Message)
}

func TestCheckWithoutStore(t *testing.T) {
	checker := NewHealthChecker(nil)
	status := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Empty(t, status.Dependencies)
}
