package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"donation-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Application workflow transitions
	ApplicationTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_application_transitions_total",
			Help: "Total number of org application workflow transitions",
		},
		[]string{"transition"}, // submitted, approved, rejected
	)

	// Workflow errors by error kind
	WorkflowErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_workflow_errors_total",
			Help: "Total number of application workflow errors",
		},
		[]string{"operation", "kind"},
	)

	// Donations by resulting status
	DonationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_donations_total",
			Help: "Total number of donations by status",
		},
		[]string{"status"},
	)

	// Organization operations
	OrgOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_org_operations_total",
			Help: "Total number of organization operations",
		},
		[]string{"operation"}, // create, approve, suspend, upgrade, cancel, etc.
	)

	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "donation_auth_login_total",
			Help: "Total number of successful logins",
		},
	)

	// Registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "donation_auth_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Auth error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // login_failure, invalid_token, rate_limited, etc.
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Status category counter (2xx, 4xx, 5xx)
	StatusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_http_status_category_total",
			Help: "Total number of responses by status category",
		},
		[]string{"category"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donation_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donation_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// Live refresh tokens, refreshed by the cleanup job
	ActiveRefreshTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "donation_active_refresh_tokens",
			Help: "Number of unrevoked, unexpired refresh tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "donation_info",
			Help: "Information about the donation service",
		},
		[]string{"version", "environment"},
	)
)

func init() {
	prometheus.MustRegister(ApplicationTransitionCounter)
	prometheus.MustRegister(WorkflowErrorCounter)
	prometheus.MustRegister(DonationCounter)
	prometheus.MustRegister(OrgOperationCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(StatusCategoryCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveRefreshTokensGauge)
	prometheus.MustRegister(InfoGauge)
}

// InitMetrics publishes the build info gauge
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{
		"version":     cfg.Metrics.Version,
		"environment": cfg.Server.Env,
	}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations.
// Use as: defer prometheus.TrackDBOperation("insert")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			code := c.Response().Status
			status := strconv.Itoa(code)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			if category := statusCategory(code); category != "" {
				StatusCategoryCounter.With(prometheus.Labels{"category": category}).Inc()
			}

			return err
		}
	}
}

func statusCategory(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	}
	return ""
}

// RecordApplicationTransition records a workflow transition
func RecordApplicationTransition(transition string) {
	ApplicationTransitionCounter.With(prometheus.Labels{"transition": transition}).Inc()
}

// RecordWorkflowError records a failed workflow call by error kind
func RecordWorkflowError(operation, kind string) {
	if kind == "" {
		kind = "internal"
	}
	WorkflowErrorCounter.With(prometheus.Labels{"operation": operation, "kind": kind}).Inc()
}

// RecordDonation records a donation reaching status
func RecordDonation(status string) {
	DonationCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordOrgOperation records an organization operation
func RecordOrgOperation(operation string) {
	OrgOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// SetActiveRefreshTokens updates the active refresh tokens gauge
func SetActiveRefreshTokens(count int64) {
	ActiveRefreshTokensGauge.Set(float64(count))
}
