package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "dominest"

// MetricsService owns the Prometheus registry and the application collectors.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	uploadItems     *prometheus.CounterVec
	expansions      *prometheus.CounterVec
	expandedPosts   prometheus.Histogram
	exports         *prometheus.CounterVec
	cleanupJobs     *prometheus.CounterVec
}

// NewMetricsService registers the application collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "cache_latency_seconds",
		Help:      "Latency for cache lookups",
		Buckets:   prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "cache_write_seconds",
		Help:      "Latency for cache set operations",
		Buckets:   prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups partitioned by result",
	}, []string{"result"})

	uploadItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "bulk_upload_items_total",
		Help:      "Bulk upload items partitioned by upload kind and outcome",
	}, []string{"kind", "outcome"})

	expansions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "repeat_schedule_expansions_total",
		Help:      "Repeat schedule expansions partitioned by result",
	}, []string{"result"})

	expandedPosts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "repeat_schedule_expanded_notices",
		Help:      "Number of day notices written per expansion",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200, 366},
	})

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "roster_exports_total",
		Help:      "Roster exports partitioned by format",
	}, []string{"format"})

	cleanupJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "file_cleanup_jobs_total",
		Help:      "Stored file cleanup jobs partitioned by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		uploadItems, expansions, expandedPosts, exports, cleanupJobs, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		uploadItems:     uploadItems,
		expansions:      expansions,
		expandedPosts:   expandedPosts,
		exports:         exports,
		cleanupJobs:     cleanupJobs,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite records cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordUploadItem counts one processed bulk item. An empty reason means success.
func (m *MetricsService) RecordUploadItem(kind, reason string) {
	if m == nil {
		return
	}
	outcome := "success"
	if reason != "" {
		outcome = reason
	}
	m.uploadItems.WithLabelValues(kind, outcome).Inc()
}

// ObserveExpansion records the result of a repeat schedule expansion.
func (m *MetricsService) ObserveExpansion(result string, notices int) {
	if m == nil {
		return
	}
	m.expansions.WithLabelValues(result).Inc()
	m.expandedPosts.Observe(float64(notices))
}

// RecordExport counts a rendered roster export.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// RecordCleanupJob counts a processed file cleanup job.
func (m *MetricsService) RecordCleanupJob(success bool) {
	if m == nil {
		return
	}
	result := "failed"
	if success {
		result = "deleted"
	}
	m.cleanupJobs.WithLabelValues(result).Inc()
}
