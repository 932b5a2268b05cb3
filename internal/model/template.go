package model

import (
	"bytes"
	"fmt"
	"text/template"
)

// LoadTemplate parses the template file at path, or the embedded fallback text
// when path is empty.
func LoadTemplate(name, path, fallback string) (*template.Template, error) {
	if path != "" {
		tpl, err := template.ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", path, err)
		}
		return tpl, nil
	}
	tpl, err := template.New(name).Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("error parsing template %s: %w", name, err)
	}
	return tpl, nil
}

// MustTemplate is LoadTemplate that panics, used for embedded defaults.
func MustTemplate(name, path, fallback string) *template.Template {
	tpl, err := LoadTemplate(name, path, fallback)
	if err != nil {
		panic(err)
	}
	return tpl
}

func Execute(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template: %w", err)
	}
	return buf.String(), nil
}
