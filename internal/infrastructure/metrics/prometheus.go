// Package metrics provides Prometheus metrics for the clinic service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	HTTPRequests            *prometheus.CounterVec
	HTTPDuration            *prometheus.HistogramVec
	AppointmentsScheduled   prometheus.Counter
	AppointmentConflicts    prometheus.Counter
	ExaminationsRecorded    prometheus.Counter
	ClinicalRecordsCompiled prometheus.Counter
	ReportsRendered         *prometheus.CounterVec
	LoginAttempts           *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates all metrics and registers them with reg. A nil reg uses a fresh
// registry, which keeps tests independent of each other.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
		AppointmentsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appointments_scheduled_total",
			Help: "Total appointments scheduled",
		}),
		AppointmentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appointment_conflicts_total",
			Help: "Total appointment requests refused because the slot was taken",
		}),
		ExaminationsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "examinations_recorded_total",
			Help: "Total examinations recorded",
		}),
		ClinicalRecordsCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinical_records_compiled_total",
			Help: "Total clinical records compiled",
		}),
		ReportsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reports_rendered_total",
			Help: "Total PDF reports rendered by result",
		}, []string{"result"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total login attempts by result",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.AppointmentsScheduled,
		m.AppointmentConflicts,
		m.ExaminationsRecorded,
		m.ClinicalRecordsCompiled,
		m.ReportsRendered,
		m.LoginAttempts,
	)

	return m
}

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
