// Package httpserver serves the upload page, the analysis endpoints and the
// operational routes.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"heatglass/internal/logger"
)

// RequestContext assigns the request id and stores a request-scoped log
// entry in the context for everything below the router.
func RequestContext(base *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := logger.RequestID(r)
			r.Header.Set(logger.RequestIDHeader, id)
			w.Header().Set(logger.RequestIDHeader, id)
			entry := base.WithRequest(r)
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), entry)))
		})
	}
}

// Recoverer turns a panic into a 500 and logs it.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.FromContext(r.Context()).WithField("panic", rec).Error("panic recovered")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request, at a level that follows the status.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entry := logger.FromContext(r.Context()).WithFields(logrus.Fields{
				"route":       route,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			switch {
			case status >= 500:
				entry.Error("http_access")
			case status >= 400:
				entry.Warn("http_access")
			default:
				entry.Info("http_access")
			}
		})
	}
}
