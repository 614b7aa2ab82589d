package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the timetable
// API: request timings plus counters for the scheduling operations.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	clashChecks     *prometheus.CounterVec
	saves           *prometheus.CounterVec
	suggestedSlots  prometheus.Histogram
}

// NewMetricsService registers the collectors.
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

	clashChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clash_checks_total",
		Help: "Advisory clash checks by verdict",
	}, []string{"status"})

	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_saves_total",
		Help: "Timetable save attempts by outcome",
	}, []string{"status"})

	suggestedSlots := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "suggested_slots_per_query",
		Help:    "Number of free slots returned per suggestion query",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, clashChecks, saves, suggestedSlots, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		clashChecks:     clashChecks,
		saves:           saves,
		suggestedSlots:  suggestedSlots,
	}
}

// Handler exposes the metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one completed request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveClashCheck records an advisory check verdict.
func (s *MetricsService) ObserveClashCheck(status string) {
	s.clashChecks.WithLabelValues(status).Inc()
}

// ObserveSave records a save outcome.
func (s *MetricsService) ObserveSave(status string) {
	s.saves.WithLabelValues(status).Inc()
}

// ObserveSuggestion records how many slots a suggestion query produced.
func (s *MetricsService) ObserveSuggestion(count int) {
	s.suggestedSlots.Observe(float64(count))
}
