package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

func NewTemplate() *Template {
	return &Template{}
}

// ParseTemplate loads the named file from the embedded templates directory
// and renders its subject, plainBody, and htmlBody sections with data.
func (tp *Template) ParseTemplate(name string, data any) (subject, plainBody, htmlBody *bytes.Buffer, err error) {
	t, err := template.New("email").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not parse template %s: %w", name, err)
	}

	subject = new(bytes.Buffer)
	plainBody = new(bytes.Buffer)
	htmlBody = new(bytes.Buffer)

	for _, section := range []struct {
		name string
		buf  *bytes.Buffer
	}{
		{"subject", subject},
		{"plainBody", plainBody},
		{"htmlBody", htmlBody},
	} {
		if err := t.ExecuteTemplate(section.buf, section.name, data); err != nil {
			return nil, nil, nil, fmt.Errorf("could not execute %s section: %w", section.name, err)
		}
	}

	return subject, plainBody, htmlBody, nil
}
