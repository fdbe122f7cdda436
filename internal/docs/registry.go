// Package docs renders the human-readable documents shipped inside every artifact.
//
// Each generator is a pure function of the plan, the style, and a snapshot of
// the build log. None of them touch the file system.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// funcMap returns the functions available to every document template.
func funcMap() template.FuncMap {
	return template.FuncMap{
		// title turns "hyperforge" into "Hyperforge" and "file-uploads" into "File Uploads".
		"title": title,
		"join":  strings.Join,
		"inc":   func(i int) int { return i + 1 },
	}
}

// title is built per call; a cases.Caser is stateful and must not be shared.
func title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "-", " "))
}

type registry struct {
	text *template.Template
	html *htmltemplate.Template
}

//nolint:gochecknoglobals // parsed once from embedded templates
var loadRegistry = sync.OnceValue(func() *registry {
	text, err := template.New("docs").Funcs(funcMap()).ParseFS(templateFS, "templates/*.md.tmpl", "templates/license_*.tmpl")
	if err != nil {
		panic(fmt.Sprintf("docs: failed to parse embedded templates: %v", err))
	}
	html, err := htmltemplate.New("docs").ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		panic(fmt.Sprintf("docs: failed to parse embedded html templates: %v", err))
	}
	return &registry{text: text, html: html}
})

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := loadRegistry().text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderHTML(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := loadRegistry().html.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
