// Package template loads YAML form templates and matches documents
// against them. A template names a form type, the first-page string
// that identifies it, and the labelled data elements to pull out.
package template

import (
	"strings"
)

// FormTemplate describes one known form layout.
type FormTemplate struct {
	FormType             string       `yaml:"form_type"`
	IdentificationString string       `yaml:"identification_string"`
	DataElements         DataElements `yaml:"data_elements"`
}

// DataElements groups the extractable fields and checkboxes of a form.
type DataElements struct {
	Fields     []FieldConfig    `yaml:"fields"`
	Checkboxes []CheckboxConfig `yaml:"checkboxes"`
}

// FieldConfig declares one labelled field. Name is the output key,
// used verbatim. Label is the printed text matched on the page, case
// sensitively. Instance selects among repeated occurrences of the same
// label (1-based; zero means first).
type FieldConfig struct {
	Name       string    `yaml:"name"`
	Label      string    `yaml:"label"`
	Type       FieldType `yaml:"type"`
	Required   bool      `yaml:"required"`
	AllowEmpty bool      `yaml:"allow_empty"`
	PageNum    int       `yaml:"page_num"`
	Instance   int       `yaml:"instance"`
}

// CheckboxConfig declares one checkbox resolved by its printed label.
type CheckboxConfig struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	PageNum int    `yaml:"page_num"`
}

// Matches reports whether the first-page text identifies this form,
// case-insensitively. A template without an identification string
// never matches.
func (t *FormTemplate) Matches(firstPageText string) bool {
	if t.IdentificationString == "" {
		return false
	}
	return strings.Contains(
		strings.ToLower(firstPageText),
		strings.ToLower(t.IdentificationString),
	)
}

// Labels returns every field label the template declares, used by the
// sequential parser's boundary checks.
func (t *FormTemplate) Labels() []string {
	labels := make([]string, 0, len(t.DataElements.Fields))
	for _, f := range t.DataElements.Fields {
		if f.Label != "" {
			labels = append(labels, f.Label)
		}
	}
	return labels
}
