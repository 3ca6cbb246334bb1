package main

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/myrjola/liftplan/internal/contexthelpers"
)

//go:embed templates
var embeddedTemplates embed.FS

type BaseTemplateData struct {
	TraceID string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		TraceID: contexthelpers.TraceID(r.Context()),
	}
}

// resolveTemplateFS returns the embedded templates or, when templatePath is set, the templates in that directory.
func resolveTemplateFS(templatePath string) (fs.FS, error) {
	if templatePath == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("sub embedded templates: %w", err)
		}
		return sub, nil
	}
	stat, err := os.Stat(templatePath)
	if err != nil {
		return nil, fmt.Errorf("template path not found %s: %w", templatePath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("template path is not a directory: %s", templatePath)
	}
	return os.DirFS(templatePath), nil
}
