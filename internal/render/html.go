package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/sangkips/cactus-admin-api/internal/document"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTMLRenderer renders the browser preview of a delivery note.
type HTMLRenderer struct {
	tmpl     *template.Template
	fontPath string
}

// NewHTMLRenderer parses the embedded template. fontPath is the URL path the
// typeface files are served under.
func NewHTMLRenderer(fontPath string) (*HTMLRenderer, error) {
	tmpl, err := template.New("delivery_note.html.tmpl").Funcs(template.FuncMap{
		"fontFile": func(w document.FontWeight) string { return fontFiles[w] },
		"half":     func(v float64) float64 { return v / 2 },
	}).ParseFS(templateFS, "templates/delivery_note.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse preview template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl, fontPath: fontPath}, nil
}

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type htmlView struct {
	*document.Model
	FontPath string
	Weights  []document.FontWeight
	Base     float64
	TitleFS  float64
}

// Render implements Renderer. The page is fully executed before it is returned.
func (r *HTMLRenderer) Render(ctx context.Context, m *document.Model) (io.WriterTo, error) {
	if m == nil {
		return nil, errors.New("render: nil model")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	view := htmlView{
		Model:    m,
		FontPath: r.fontPath,
		Weights:  fontWeights,
		Base:     document.BaseFontSize,
		TitleFS:  document.SectionTitleFontSize,
	}
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render: preview %s: %w", m.FileName, err)
	}
	return &buf, nil
}
