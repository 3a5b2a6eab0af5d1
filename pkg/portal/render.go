package portal

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/yosssi/gohtml"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Renderer turns a [View] into an HTML document.
type Renderer struct {
	tmpl   *template.Template
	pretty bool
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithPretty indents the generated HTML.
func WithPretty(pretty bool) RenderOption {
	return func(r *Renderer) { r.pretty = pretty }
}

// WithListing replaces the per-package listing template. The template must
// define "listing" and receives a bpl.Package.
func WithListing(src string) RenderOption {
	return func(r *Renderer) {
		r.tmpl = template.Must(template.Must(r.tmpl.Clone()).Parse(src))
	}
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts ...RenderOption) *Renderer {
	tmpl := template.Must(template.New("portal").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.html.tmpl"))

	r := &Renderer{tmpl: tmpl}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the page for v to w.
func (r *Renderer) Render(w io.Writer, v View) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return err
	}
	out := buf.Bytes()
	if r.pretty {
		out = gohtml.FormatBytes(out)
	}
	_, err := w.Write(out)
	return err
}
