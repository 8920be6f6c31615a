package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	appanomaly "github.com/bryanwahyu/climate-anomaly/internal/application/anomaly"
)

const namespace = "climate_anomaly"

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InFlight         prometheus.Gauge
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	ZScores          prometheus.Histogram
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses performed, by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent computing and rendering one analysis.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		ZScores: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "zscore",
			Help:      "Distribution of computed z-scores.",
			Buckets:   []float64{-4, -3, -2, -1, 0, 1, 2, 3, 4},
		}),
	}
}

// ObserveAnalysis implements the analysis service's Observer.
func (m *Metrics) ObserveAnalysis(outcome string, zScore float64, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	if outcome == appanomaly.OutcomeOK {
		m.ZScores.Observe(zScore)
	}
}

// Middleware records request count, latency and in-flight gauge.
// The route label is chi's pattern so path parameters don't explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
