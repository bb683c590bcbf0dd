package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the widget templates. Callers that render full pages
// clone the result and parse their own layouts on top, which can then
// invoke {{template "widget" .}}.
func Templates() (*template.Template, error) {
	t, err := template.New("render").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse widget templates: %w", err)
	}
	return t, nil
}

// HTML renders widgets as HTML fragments.
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	t, err := Templates()
	if err != nil {
		return nil, err
	}
	return &HTML{tmpl: t}, nil
}

// WriteWidget writes the widget fragment to w. Output is buffered so a
// template error never leaves a half-written response.
func (h *HTML) WriteWidget(w io.Writer, widget Widget) error {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "widget", widget); err != nil {
		return fmt.Errorf("failed to render widget: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
