package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for the API. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	authFailures *prometheus.CounterVec
	generations  *prometheus.CounterVec
	genDuration  *prometheus.HistogramVec
}

// New registers the collectors against registerer.
func New(registerer prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadgen_http_requests_total",
		Help: "HTTP requests partitioned by method, route and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leadgen_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	authFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadgen_auth_failures_total",
		Help: "Rejected authentication attempts by reason.",
	}, []string{"reason"})
	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadgen_text_generations_total",
		Help: "Text generation calls by operation and outcome.",
	}, []string{"operation", "status"})
	genDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leadgen_text_generation_duration_seconds",
		Help:    "Latency of text generation calls in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"operation"})
	registerer.MustRegister(requests, duration, authFailures, generations, genDuration)
	return &Metrics{
		requests:     requests,
		duration:     duration,
		authFailures: authFailures,
		generations:  generations,
		genDuration:  genDuration,
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// ObserveGeneration records one text generation call and returns err untouched.
func (m *Metrics) ObserveGeneration(operation string, started time.Time, err error) error {
	if m == nil {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.generations.WithLabelValues(operation, status).Inc()
	m.genDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	return err
}
