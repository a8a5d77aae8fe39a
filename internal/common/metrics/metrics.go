// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_lead_submissions_total",
			Help: "Total number of lead submissions by lead type and outcome",
		},
		[]string{"lead_type", "outcome"},
	)

	LeadSubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "site_lead_submission_duration_seconds",
			Help:    "Duration of webhook submissions in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"lead_type"},
	)

	ReputationRatings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_reputation_ratings_total",
			Help: "Ratings locked on the reputation page, by star count",
		},
		[]string{"stars"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_notifications_total",
			Help: "Owner notifications relayed, by channel and status",
		},
		[]string{"channel", "status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_http_requests_total",
			Help: "HTTP requests handled by the API",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "site_http_request_duration_seconds",
			Help: "Duration of API requests in seconds",
		},
		[]string{"method", "route"},
	)

	ImagesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_images_generated_total",
			Help: "Image generation requests, by outcome",
		},
		[]string{"outcome"},
	)

	ExportRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_export_runs_total",
			Help: "Export script runs, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	ReputationSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "site_reputation_sessions_active",
			Help: "Number of live reputation gate sessions",
		},
	)
)
