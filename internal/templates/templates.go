// Package templates holds the embedded mail templates.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
)

//go:embed mail/*.tmpl
var mailTemplates embed.FS

// NpsInvite is the data of an NPS invitation mail.
type NpsInvite struct {
	CompanyName string
	Name        string
	URL         string
}

// Mail is a rendered message body pair.
type Mail struct {
	Subject string
	Text    string
	HTML    string
}

// RenderNpsInvite renders the invitation in the engagement locale. Any
// locale other than "en" falls back to Spanish.
func RenderNpsInvite(locale string, data NpsInvite) (*Mail, error) {
	if locale != "en" {
		locale = "es"
	}
	if strings.TrimSpace(data.Name) == "" {
		data.Name = map[string]string{"es": "Hola", "en": "Hello"}[locale]
	}

	text, err := renderText("mail/nps-invite."+locale+".txt.tmpl", data)
	if err != nil {
		return nil, err
	}
	html, err := renderHTML("mail/nps-invite."+locale+".html.tmpl", data)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s | Encuesta breve (3 clics) - NPS", data.CompanyName)
	if locale == "en" {
		subject = fmt.Sprintf("%s | Short survey (3 clicks) - NPS", data.CompanyName)
	}
	return &Mail{Subject: subject, Text: text, HTML: html}, nil
}

func renderText(name string, data any) (string, error) {
	content, err := mailTemplates.ReadFile(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderHTML(name string, data any) (string, error) {
	content, err := mailTemplates.ReadFile(name)
	if err != nil {
		return "", err
	}
	tmpl, err := htmltemplate.New(name).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
