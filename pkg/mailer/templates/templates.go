package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names known to the email worker.
const (
	Welcome = "welcome"
)

var welcomeHTML = template.Must(template.New(Welcome).Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome to Memoria, {{.Name}}!</h2>
    <p>Your journal is ready. Capture a moment, tag it, and watch your
    timeline grow.</p>
    <p style="color: #888; font-size: 12px;">You are receiving this because
    an account was registered for {{.Email}}.</p>
  </body>
</html>`))

// Render renders a named template into subject, text and HTML bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case Welcome:
		var buf bytes.Buffer
		if err := welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Welcome to Memoria"
		text = fmt.Sprintf("Welcome to Memoria, %v! Your journal is ready.", data["Name"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
}
