// Package metrics holds Prometheus instruments for the contact form.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission results.
const (
	ResultAccepted = "accepted"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected" // CSRF or parse failure
)

var (
	FormSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_form_submissions_total",
			Help: "Submit events by result.",
		}, []string{"result"})

	FormFieldErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_form_field_errors_total",
			Help: "Validation errors shown, by field.",
		}, []string{"field"})

	FormChangesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_form_changes_total",
			Help: "Field change events handled by the live validation endpoint.",
		})
)

func init() {
	prometheus.MustRegister(
		FormSubmissionsTotal,
		FormFieldErrorsTotal,
		FormChangesTotal,
	)
}
