package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_Observe(t *testing.T) {
	m := NewHTTPMetrics()

	m.Observe(http.MethodPost, "/api/v1/sales", http.StatusCreated, 20*time.Millisecond)
	m.Observe(http.MethodPost, "/api/v1/sales", http.StatusCreated, 30*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/api/v1/sales", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestHTTPMetrics_InFlight(t *testing.T) {
	m := NewHTTPMetrics()

	done := m.Begin()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inFlight))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestHTTPMetrics_Handler(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, MetricHTTPRequestsTotal))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
