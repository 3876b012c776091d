package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationTotal    prometheus.Counter
	generationDuration prometheus.Histogram
	generationPlaced   prometheus.Histogram
	generationShort    prometheus.Counter
	validationErrors   prometheus.Gauge
	validationWarnings prometheus.Gauge
}

// NewMetricsService registers the core Prometheus collectors.
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

	generationTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_generation_total",
		Help: "Number of timetable generation runs",
	})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of timetable generation runs",
		Buckets: prometheus.DefBuckets,
	})

	generationPlaced := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_slots_placed",
		Help:    "Slots placed per generation run",
		Buckets: []float64{5, 10, 20, 30, 40, 50, 64},
	})

	generationShort := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_generation_shortfalls_total",
		Help: "Requirements left under-fulfilled across generation runs",
	})

	validationErrors := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_validation_conflicts",
		Help: "Hard conflicts in the most recent validation run",
	})

	validationWarnings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_validation_warnings",
		Help: "Soft warnings in the most recent validation run",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		generationTotal,
		generationDuration,
		generationPlaced,
		generationShort,
		validationErrors,
		validationWarnings,
		goroutines,
	)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationTotal:    generationTotal,
		generationDuration: generationDuration,
		generationPlaced:   generationPlaced,
		generationShort:    generationShort,
		validationErrors:   validationErrors,
		validationWarnings: validationWarnings,
	}
}

// Handler returns the Prometheus scrape handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveGeneration records one generation run.
func (s *MetricsService) ObserveGeneration(duration time.Duration, placed, conflicts int) {
	s.generationTotal.Inc()
	s.generationDuration.Observe(duration.Seconds())
	s.generationPlaced.Observe(float64(placed))
	if conflicts > 0 {
		s.generationShort.Add(float64(conflicts))
	}
}

// ObserveValidation records the latest validation report size.
func (s *MetricsService) ObserveValidation(conflicts, warnings int) {
	s.validationErrors.Set(float64(conflicts))
	s.validationWarnings.Set(float64(warnings))
}
