package template

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDir reads every .yaml/.yml template under dir. A file that fails
// to parse, or parses without a form type, is logged and skipped so one
// bad template never disables the rest.
func LoadDir(dir string, log *slog.Logger) ([]*FormTemplate, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory %s: %w", dir, err)
	}

	var templates []*FormTemplate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		tmpl, err := LoadFile(path)
		if err != nil {
			log.Warn("skipping template", "file", path, "error", err)
			continue
		}
		templates = append(templates, tmpl)
	}

	log.Info("templates loaded", "dir", dir, "count", len(templates))
	return templates, nil
}

// LoadFile parses a single YAML template.
func LoadFile(path string) (*FormTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmpl FormTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if tmpl.FormType == "" {
		return nil, fmt.Errorf("%s: missing form_type", filepath.Base(path))
	}
	return &tmpl, nil
}

// Identify returns the first template whose identification string
// occurs in the first-page text, or nil when none matches.
func Identify(templates []*FormTemplate, firstPageText string) *FormTemplate {
	for _, t := range templates {
		if t.Matches(firstPageText) {
			return t
		}
	}
	return nil
}
