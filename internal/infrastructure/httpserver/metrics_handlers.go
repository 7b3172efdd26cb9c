package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "The HTTP request latencies in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	popupStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_popup_streams",
			Help: "Open popup event streams",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, popupStreams)
}

// GetRequestsTotal returns the requests total metric for middleware use
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRequestDuration returns the request duration metric for middleware use
func GetRequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

// LogMetricsInitialization logs which metrics the service exposes.
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"http":             "http_requests_total, http_request_duration_seconds",
			"analysis":         "sentinel_backend_requests_total, sentinel_result_cache_lookups_total",
			"visits":           "sentinel_visits_recorded_total",
			"notifications":    "sentinel_notifications_total",
			"streams":          "sentinel_popup_streams",
			"metrics_endpoint": "/metrics",
		}).Debug("Prometheus metrics registered")
	}
}

var metricsHandler = promhttp.Handler()

func (s *Server) metricsEndpoint(c echo.Context) error {
	metricsHandler.ServeHTTP(c.Response(), c.Request())
	return nil
}
