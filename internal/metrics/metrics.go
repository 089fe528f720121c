package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60},
		},
		[]string{"route", "method"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatglass_analyses_total",
			Help: "Analyses by outcome (ok, recovered_placeholder, transcription_error, completion_error)",
		},
		[]string{"outcome"},
	)
	NormalizationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatglass_normalization_total",
			Help: "Model responses by the normalization strategy that parsed them",
		},
		[]string{"strategy"},
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heatglass_upstream_duration_seconds",
			Help:    "Duration of transcription and completion calls, retries included",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"service"},
	)
	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatglass_upstream_errors_total",
			Help: "Failed upstream attempts by service",
		},
		[]string{"service"},
	)
	PromptTokens = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatglass_prompt_tokens",
			Help:    "Prompt size in tokens",
			Buckets: prometheus.ExponentialBuckets(250, 2, 8),
		},
	)
	ScorePercent = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatglass_score_percent",
			Help:    "Distribution of checklist scores (0-100)",
			Buckets: []float64{25, 50, 70, 85, 100},
		},
	)
)

var once sync.Once

// InitMetrics registers every collector with the default registry. Safe to
// call more than once.
func InitMetrics() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AnalysesTotal,
			NormalizationTotal,
			UpstreamDuration,
			UpstreamErrorsTotal,
			PromptTokens,
			ScorePercent,
		)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveUpstream records one upstream call.
func ObserveUpstream(service string, started time.Time) {
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(started).Seconds())
}

func UpstreamError(service string) {
	UpstreamErrorsTotal.WithLabelValues(service).Inc()
}

func Analysis(outcome string) {
	AnalysesTotal.WithLabelValues(outcome).Inc()
}

func Normalization(strategy string) {
	NormalizationTotal.WithLabelValues(strategy).Inc()
}

// ObserveScore records a checklist score percentage.
func ObserveScore(p float64) {
	if p >= 0 && p <= 100 {
		ScorePercent.Observe(p)
	}
}
