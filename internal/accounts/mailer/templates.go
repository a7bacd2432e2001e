package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

const (
	activationSubject = "Activate your account"
	resetSubject      = "Reset your password"
)

// Templates renders the lifecycle emails.
type Templates struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// LoadTemplates parses the embedded templates.
func LoadTemplates() (*Templates, error) {
	h, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mailer: parse html templates: %w", err)
	}
	t, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("mailer: parse text templates: %w", err)
	}
	return &Templates{html: h, text: t}, nil
}

// MustLoadTemplates is LoadTemplates for package initialisation and tests.
func MustLoadTemplates() *Templates {
	t, err := LoadTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

type linkData struct {
	Link string
}

// Activation renders the email carrying the account activation link.
func (t *Templates) Activation(to, link string) (Message, error) {
	return t.render("activation", to, activationSubject, link)
}

// PasswordReset renders the email carrying the password reset link.
func (t *Templates) PasswordReset(to, link string) (Message, error) {
	return t.render("reset", to, resetSubject, link)
}

func (t *Templates) render(name, to, subject, link string) (Message, error) {
	data := linkData{Link: link}

	var html, text bytes.Buffer
	if err := t.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("mailer: render %s.html: %w", name, err)
	}
	if err := t.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("mailer: render %s.txt: %w", name, err)
	}

	return Message{To: to, Subject: subject, HTML: html.String(), Text: text.String()}, nil
}
