package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the conversion service
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Codec metrics
	conversionsTotal   *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	conversionBytes    *prometheus.HistogramVec

	// Storage metrics
	storeOperationsTotal *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txml_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txml_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "txml_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		conversionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txml_conversions_total",
				Help: "Total number of codec conversions",
			},
			[]string{"direction", "status"},
		),

		conversionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txml_conversion_duration_seconds",
				Help:    "Codec conversion duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"direction"},
		),

		conversionBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txml_conversion_input_bytes",
				Help:    "Size of conversion inputs in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"direction"},
		),

		storeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txml_store_operations_total",
				Help: "Total number of document store operations",
			},
			[]string{"operation", "status"},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txml_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordConversion records one codec conversion
func (m *Metrics) RecordConversion(direction string, success bool, inputBytes int, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.conversionsTotal.WithLabelValues(direction, status).Inc()
	m.conversionDuration.WithLabelValues(direction).Observe(duration.Seconds())
	m.conversionBytes.WithLabelValues(direction).Observe(float64(inputBytes))
}

// RecordStoreOperation records a document store operation
func (m *Metrics) RecordStoreOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.storeOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
