package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTPRequest("GET", "/api/tasks", 200, 25*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/tasks", 200, 30*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/tasks", 201, 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/tasks", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/tasks", "201")))
}

func TestObserveStoreOperation(t *testing.T) {
	m := NewMetrics()

	m.ObserveStoreOperation("tasks", "insert", time.Millisecond, nil)
	m.ObserveStoreOperation("tasks", "insert", time.Millisecond, errors.New("timeout"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.StoreOperationsTotal.WithLabelValues("tasks", "insert")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreErrorsTotal.WithLabelValues("tasks", "insert")))
}

func TestObserveIdentityLookup(t *testing.T) {
	m := NewMetrics()

	m.ObserveIdentityLookup("get_user", nil)
	m.ObserveIdentityLookup("get_user", errors.New("401"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.IdentityLookupsTotal.WithLabelValues("get_user", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IdentityLookupsTotal.WithLabelValues("get_user", "error")))
}

func TestMetricsRegistriesAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ObserveHTTPRequest("GET", "/api/apis", 200, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(a.HTTPRequestsTotal.WithLabelValues("GET", "/api/apis", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.HTTPRequestsTotal.WithLabelValues("GET", "/api/apis", "200")))
}
