package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	SubmissionConflicts   prometheus.Counter
	ReviewsCompleted      *prometheus.CounterVec
	CaptureVerdicts       *prometheus.CounterVec
	CredentialsIssued     prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eregister_applications_submitted_total",
			Help: "Total number of applications accepted into the pending state",
		}),
		SubmissionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eregister_submission_conflicts_total",
			Help: "Submissions rejected because an application already existed for the uid",
		}),
		ReviewsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eregister_reviews_completed_total",
			Help: "Review decisions that transitioned an application out of pending",
		}, []string{"decision"}),
		CaptureVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eregister_capture_verdicts_total",
			Help: "Biometric capture gate verdicts",
		}, []string{"verdict"}),
		CredentialsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eregister_credentials_issued_total",
			Help: "Verification credentials issued on approval",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eregister_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records a single HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
