package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, one per embedded file.
const (
	TemplateMentorshipUser  = "mentorship_requested_user"
	TemplateMentorshipAdmin = "mentorship_requested_admin"
	TemplateConnectUser     = "connect_user"
	TemplateConnectAdmin    = "connect_admin"
	TemplatePitchUser       = "pitch_submitted_user"
	TemplatePitchAdmin      = "pitch_submitted_admin"
)

// Renderer renders the embedded HTML email templates with strict
// missing-key semantics.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("email").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("notify: parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// MustRenderer panics if the embedded templates fail to parse.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template (without the .html suffix).
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	t := r.tmpl.Lookup(name + ".html")
	if t == nil {
		return "", fmt.Errorf("notify: unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", name, err)
	}
	return buf.String(), nil
}
