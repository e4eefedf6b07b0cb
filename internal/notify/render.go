package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

// Template ids understood by the renderer.
const (
	// TemplateVerifyEmail is the welcome mail carrying the verification link.
	// Variables: FirstName, Link.
	TemplateVerifyEmail = "verify_email"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render produces the HTML body for a template id and its variables.
// Unknown template ids are an error rather than a blank mail.
func Render(templateID string, vars map[string]any) (string, error) {
	tmpl := templates.Lookup(templateID + ".html")
	if tmpl == nil {
		return "", fmt.Errorf("unknown notification template %q", templateID)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", templateID, err)
	}
	return buf.String(), nil
}
