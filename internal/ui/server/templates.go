package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

// loadTemplates parses the page templates from fsys. The map is keyed by
// logical page name.
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"imageSrc": imageSrc,
	}

	homeTmpl, err := template.New("home").Funcs(funcs).ParseFS(fsys,
		"base.tmpl", "home.tmpl", "form.tmpl", "gallery.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse home templates: %w", err)
	}

	return map[string]*template.Template{
		"home": homeTmpl,
	}, nil
}

// imageSrc lets data: image URIs and http(s) links through html/template's
// URL filter. Anything else renders as an empty src.
func imageSrc(value string) template.URL {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(trimmed)
	default:
		return ""
	}
}
