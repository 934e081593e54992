package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New(nil)
	b := New(nil)

	a.AppointmentsScheduled.Inc()
	a.ReportsRendered.WithLabelValues(ResultFailure).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AppointmentsScheduled))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AppointmentsScheduled))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ReportsRendered.WithLabelValues(ResultFailure)))
}

func TestHandler_ExposesDomainCounters(t *testing.T) {
	m := New(nil)
	m.LoginAttempts.WithLabelValues(ResultSuccess).Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `login_attempts_total{result="success"} 1`)
	assert.Contains(t, rec.Body.String(), "appointments_scheduled_total 0")
}
