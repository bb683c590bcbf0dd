package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/hyperjump/newsprobe/internal/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed about.md
var aboutMarkdown []byte

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

const siteTitle = "newsprobe"

type pageData struct {
	Title  string
	About  template.HTML
	Widget render.Widget
}

// parsePages layers the page templates over the widget templates so pages
// can invoke {{template "widget" .Widget}}.
func parsePages() (*template.Template, error) {
	base, err := render.Templates()
	if err != nil {
		return nil, err
	}
	if _, err := base.ParseFS(templateFS, "templates/*.html"); err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	return base, nil
}

func renderMarkdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint: gosec
}
