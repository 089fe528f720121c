package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"heatglass/internal/processor"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageIndex     = "index"
	PageResult    = "result"
	PageHistorico = "historico"
	PageError     = "error"
)

// IndexPage feeds the upload form.
type IndexPage struct {
	MaxUploadMB int64
	Mocked      bool
}

// ResultPage feeds the analysis page. PDF and XLSX are data: URIs and may be
// empty when export failed.
type ResultPage struct {
	Result processor.Result
	Blocks []Block
	PDF    template.URL
	XLSX   template.URL
}

// ErrorPage feeds the error page.
type ErrorPage struct {
	Status  int
	Message string
}

var funcs = template.FuncMap{
	"width": func(p float64) string {
		if math.IsNaN(p) {
			p = 0
		}
		return fmt.Sprintf("%.0f", math.Max(0, math.Min(100, p)))
	},
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{PageIndex, PageResult, PageHistorico, PageError} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.Execute(w, data)
}

func (r *Renderer) Index(w io.Writer, p IndexPage) error {
	return r.execute(w, PageIndex, p)
}

func (r *Renderer) Result(w io.Writer, p ResultPage) error {
	if p.Blocks == nil {
		p.Blocks = Blocks(p.Result)
	}
	return r.execute(w, PageResult, p)
}

func (r *Renderer) Historico(w io.Writer) error {
	return r.execute(w, PageHistorico, nil)
}

func (r *Renderer) Error(w io.Writer, p ErrorPage) error {
	return r.execute(w, PageError, p)
}
