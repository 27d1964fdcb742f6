package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Classification outcomes recorded as metric labels.
const (
	OutcomeSuccess              = "success"
	OutcomeEmptyResponse        = "empty_response"
	OutcomeMalformedResponse    = "malformed_response"
	OutcomeClassificationFailed = "classification_failed"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry               *prometheus.Registry
	handler                http.Handler
	requestDuration        *prometheus.HistogramVec
	requestTotal           *prometheus.CounterVec
	classificationDuration *prometheus.HistogramVec
	classificationTotal    *prometheus.CounterVec
	submissionsTotal       *prometheus.CounterVec
	quotaRejections        prometheus.Counter
	activeSessions         prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	classificationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "complaint_classification_duration_seconds",
		Help:    "Latency of calls to the external classifier",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"outcome"})

	classificationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_classifications_total",
		Help: "Classifier calls by outcome",
	}, []string{"outcome"})

	submissionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_submissions_total",
		Help: "Complaint submissions by result and priority",
	}, []string{"result", "priority"})

	quotaRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "complaint_quota_rejections_total",
		Help: "Submissions refused by the per-client quota",
	})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "complaint_sessions_active",
		Help: "Sessions currently held in memory",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, classificationDuration, classificationTotal,
		submissionsTotal, quotaRejections, activeSessions, goroutines)

	return &MetricsService{
		registry:               registry,
		handler:                promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:        requestDuration,
		requestTotal:           requestTotal,
		classificationDuration: classificationDuration,
		classificationTotal:    classificationTotal,
		submissionsTotal:       submissionsTotal,
		quotaRejections:        quotaRejections,
		activeSessions:         activeSessions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveClassification records one classifier call.
func (m *MetricsService) ObserveClassification(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.classificationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.classificationTotal.WithLabelValues(outcome).Inc()
}

// RecordSubmission counts a finished submission. Priority is empty for failures.
func (m *MetricsService) RecordSubmission(succeeded bool, priority string) {
	if m == nil {
		return
	}
	result := "failed"
	if succeeded {
		result = "succeeded"
	}
	m.submissionsTotal.WithLabelValues(result, priority).Inc()
}

// RecordQuotaRejection counts a refused submission.
func (m *MetricsService) RecordQuotaRejection() {
	if m == nil {
		return
	}
	m.quotaRejections.Inc()
}

// SetActiveSessions publishes the number of live sessions.
func (m *MetricsService) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
