package httpserver

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"net/http"

	"heatglass/internal/config"
	"heatglass/internal/logger"
	"heatglass/internal/processor"
	"heatglass/internal/render"
	"heatglass/internal/report"
	"heatglass/internal/rubric"
)

// Analyzer runs the analysis pipeline on one recording.
type Analyzer interface {
	Analyze(ctx context.Context, fileName string, audio io.Reader) (processor.Result, error)
	Rubric() rubric.Rubric
}

// Server aggregates handler dependencies.
type Server struct {
	Cfg      config.Config
	Analyzer Analyzer
	Pages    *render.Renderer
}

func NewServer(cfg config.Config, a Analyzer, pages *render.Renderer) *Server {
	return &Server{Cfg: cfg, Analyzer: a, Pages: pages}
}

func (s *Server) html(w http.ResponseWriter, r *http.Request, status int, page func(io.Writer) error) {
	var buf bytes.Buffer
	if err := page(&buf); err != nil {
		logger.FromContext(r.Context()).WithField("error", err.Error()).Error("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// IndexHandler serves the upload form.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.html(w, r, http.StatusOK, func(out io.Writer) error {
			return s.Pages.Index(out, render.IndexPage{MaxUploadMB: s.Cfg.MaxUploadMB, Mocked: s.Cfg.FullyMocked()})
		})
	}
}

// AnalyzeHandler analyses the uploaded recording and renders the result page
// with PDF and XLSX download links.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context()).WithField("handler", "analyze")

		up, err := readUpload(w, r, s.Cfg.MaxUploadBytes())
		if err != nil {
			status, _ := statusFor(err)
			log.WithField("error", err.Error()).Warn("upload rejected")
			s.html(w, r, status, func(out io.Writer) error {
				return s.Pages.Error(out, render.ErrorPage{Status: status, Message: err.Error()})
			})
			return
		}

		res, err := s.analyze(r.Context(), up)
		status := http.StatusOK
		page := render.ResultPage{Result: res}
		if err != nil {
			status, _ = statusFor(err)
		} else {
			page.PDF, page.XLSX = s.exports(r.Context(), res)
		}
		s.html(w, r, status, func(out io.Writer) error {
			return s.Pages.Result(out, page)
		})
	}
}

// analyze runs the pipeline under the analysis deadline, which config keeps
// shorter than the server's write timeout.
func (s *Server) analyze(ctx context.Context, up upload) (processor.Result, error) {
	if s.Cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Cfg.AnalysisTimeout)
		defer cancel()
	}
	return s.Analyzer.Analyze(ctx, up.Name, bytes.NewReader(up.Data))
}

// exports builds the download links. A failed export only drops its link.
func (s *Server) exports(ctx context.Context, res processor.Result) (pdf, xlsx template.URL) {
	log := logger.FromContext(ctx).WithField("component", "report")
	if b, err := report.PDF(res, s.Analyzer.Rubric()); err != nil {
		log.WithField("error", err.Error()).Warn("pdf export failed")
	} else {
		pdf = template.URL(report.DataURI(report.MIMEPDF, b))
	}
	if b, err := report.XLSX(res); err != nil {
		log.WithField("error", err.Error()).Warn("xlsx export failed")
	} else {
		xlsx = template.URL(report.DataURI(report.MIMEXLSX, b))
	}
	return pdf, xlsx
}

// AnalysesHandler is the JSON twin of AnalyzeHandler. Upstream failures
// answer 502 with the partial result.
func (s *Server) AnalysesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, err := readUpload(w, r, s.Cfg.MaxUploadBytes())
		if err != nil {
			logger.FromContext(r.Context()).WithField("error", err.Error()).Warn("upload rejected")
			writeError(w, err)
			return
		}
		res, err := s.analyze(r.Context(), up)
		if err != nil {
			status, _ := statusFor(err)
			writeJSON(w, status, res)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// HistoricoHandler serves the history mockup.
func (s *Server) HistoricoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.html(w, r, http.StatusOK, s.Pages.Historico)
	}
}

func HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
