package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"heatglass/internal/logger"
	"heatglass/internal/metrics"
)

// BuildRouter wires middleware and routes.
func BuildRouter(srv *Server, base *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestContext(base))
	r.Use(Recoverer())
	r.Use(AccessLog())
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: srv.Cfg.CORSOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{logger.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", srv.IndexHandler())
	r.Get("/historico", srv.HistoricoHandler())

	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(srv.Cfg.RateLimitPerMin, time.Minute))
		wr.Post("/analyze", srv.AnalyzeHandler())
		wr.Post("/api/v1/analyses", srv.AnalysesHandler())
	})

	r.Get("/healthz", HealthzHandler)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
