package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the KYC workflow.
type Metrics struct {
	CompaniesCreated prometheus.Counter

	// Committed status transitions by from/to status code
	StatusTransitions *prometheus.CounterVec

	// Verification emails by result: "sent", "failed", "skipped"
	VerificationEmails *prometheus.CounterVec

	// External collaborator latency and failures: "facematch", "registry", "enrichment", "notifier"
	ExternalCallDuration *prometheus.HistogramVec
	ExternalCallFailures *prometheus.CounterVec

	OperationDuration *prometheus.HistogramVec
}

// New registers the workflow metrics on reg. A nil reg builds unregistered
// collectors, which is what tests use.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CompaniesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "kyc_companies_created_total",
			Help: "Total number of companies created",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_status_transitions_total",
			Help: "Total committed company status transitions",
		}, []string{"from", "to"}),
		VerificationEmails: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_verification_emails_total",
			Help: "Verification email requests by result",
		}, []string{"result"}),
		ExternalCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyc_external_call_duration_seconds",
			Help:    "Duration of calls to external collaborators",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"collaborator"}),
		ExternalCallFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_external_call_failures_total",
			Help: "Failed calls to external collaborators",
		}, []string{"collaborator"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyc_operation_duration_seconds",
			Help:    "Duration of workflow operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncCompanyCreated() {
	if m != nil {
		m.CompaniesCreated.Inc()
	}
}

func (m *Metrics) IncTransition(from, to int) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
	}
}

func (m *Metrics) IncVerificationEmail(result string) {
	if m != nil {
		m.VerificationEmails.WithLabelValues(result).Inc()
	}
}

// ObserveExternalCall records one collaborator call and counts it as failed
// when err is non-nil.
func (m *Metrics) ObserveExternalCall(collaborator string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ExternalCallDuration.WithLabelValues(collaborator).Observe(d.Seconds())
	if err != nil {
		m.ExternalCallFailures.WithLabelValues(collaborator).Inc()
	}
}

func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m != nil {
		m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
	}
}
