// Package process runs the extraction pipeline over files and
// directories: validation, template identification, template or
// heuristic extraction, and per-document status reporting.
package process

import (
	"log/slog"
	"strings"

	"github.com/formvane/formvane/internal/config"
	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/extract"
	"github.com/formvane/formvane/internal/template"
)

// Status classifies the outcome of processing one document.
type Status string

const (
	StatusSuccess     Status = "SUCCESS"
	StatusNoData      Status = "SUCCESS_NO_DATA"
	StatusOpenFailure Status = "ERROR_OPENING_FILE"
)

// ExtractionPath names the pipeline that produced a document's records.
type ExtractionPath string

const (
	PathTemplate  ExtractionPath = "Template"
	PathHeuristic ExtractionPath = "Dynamic"
	// PathFallback marks documents that matched a template but yielded
	// no records from it, so the heuristics ran instead.
	PathFallback ExtractionPath = "Dynamic (Fallback)"
)

// DocumentResult is the outcome of processing one file.
type DocumentResult struct {
	File            string           `json:"file"`
	FormType        string           `json:"form_type,omitempty"`
	Status          Status           `json:"status"`
	Path            ExtractionPath   `json:"extraction_path,omitempty"`
	Records         []extract.Record `json:"records,omitempty"`
	MissingRequired []string         `json:"missing_required,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Processor drives extraction for single files and whole directories.
// When a template directory is configured, documents matching a known
// form are parsed by the template parser; everything else falls back to
// the heuristic strategy chain.
type Processor struct {
	cfg       *config.Config
	templates []*template.FormTemplate
	orch      *extract.Orchestrator
	parser    *extract.TemplateParser
	validator *Validator
	log       *slog.Logger
}

// NewProcessor builds a processor from the configuration, loading
// templates when a template directory is configured.
func NewProcessor(cfg *config.Config, log *slog.Logger) (*Processor, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var templates []*template.FormTemplate
	if cfg.TemplateDirectory != "" {
		loaded, err := template.LoadDir(cfg.TemplateDirectory, log)
		if err != nil {
			return nil, err
		}
		templates = loaded
	}

	opts := extract.DefaultOptions()
	return &Processor{
		cfg:       cfg,
		templates: templates,
		orch:      extract.NewOrchestrator(opts, log),
		parser:    extract.NewTemplateParser(opts, log),
		validator: NewValidator(cfg.MaxFileSize),
		log:       log,
	}, nil
}

// Templates returns the loaded form templates.
func (p *Processor) Templates() []*template.FormTemplate {
	return p.templates
}

// ProcessFile extracts one document. Open and parse failures yield a
// result with ERROR_OPENING_FILE rather than an error: a bad file in a
// batch must not abort the batch.
func (p *Processor) ProcessFile(path string) DocumentResult {
	result := DocumentResult{File: path}

	if err := p.validator.ValidateFile(path); err != nil {
		p.log.Warn("file rejected", "file", path, "error", err)
		result.Status = StatusOpenFailure
		result.Error = err.Error()
		return result
	}

	doc, err := engine.OpenFile(path)
	if err != nil {
		p.log.Warn("cannot open document", "file", path, "error", err)
		result.Status = StatusOpenFailure
		result.Error = err.Error()
		return result
	}
	defer doc.Close()

	p.extractRecords(doc, &result)

	if len(result.Records) == 0 {
		result.Status = StatusNoData
	} else {
		result.Status = StatusSuccess
	}

	p.log.Info("document processed",
		"file", path,
		"form", result.FormType,
		"path", result.Path,
		"status", result.Status,
		"records", len(result.Records))
	return result
}

// extractRecords runs the template or heuristic pipeline over an open
// document and records which path produced the result.
func (p *Processor) extractRecords(doc engine.Document, result *DocumentResult) {
	tmpl := p.Identify(doc)
	if tmpl == nil {
		result.Path = PathHeuristic
		result.Records = p.orch.ExtractDocument(doc)
		return
	}

	result.FormType = tmpl.FormType
	result.Path = PathTemplate
	result.Records = p.parser.ParseDocument(doc, tmpl)
	result.MissingRequired = missingRequired(tmpl, result.Records)
	if len(result.Records) == 0 {
		// The layout drifted from the template; the heuristics still
		// get a chance at the document.
		p.log.Info("template yielded no records, falling back to heuristics",
			"file", result.File, "form", tmpl.FormType)
		result.Path = PathFallback
		result.Records = p.orch.ExtractDocument(doc)
	}
}

// ProcessDirectory extracts every PDF under the directory.
func (p *Processor) ProcessDirectory(dir string) ([]DocumentResult, error) {
	files, err := ScanDirectory(dir)
	if err != nil {
		return nil, err
	}

	results := make([]DocumentResult, 0, len(files))
	for _, f := range files {
		results = append(results, p.ProcessFile(f))
	}
	return results, nil
}

// Identify matches the document's first-page text against the loaded
// templates.
func (p *Processor) Identify(doc engine.Document) *template.FormTemplate {
	if len(p.templates) == 0 || doc.PageCount() == 0 {
		return nil
	}
	page, err := doc.Page(0)
	if err != nil {
		return nil
	}

	var sb strings.Builder
	for _, w := range page.Words() {
		sb.WriteString(w.Text)
		sb.WriteByte(' ')
	}
	return template.Identify(p.templates, sb.String())
}

// missingRequired lists the required template fields absent from the
// extracted records.
func missingRequired(tmpl *template.FormTemplate, records []extract.Record) []string {
	got := map[string]bool{}
	for _, r := range records {
		got[r.Key] = true
	}

	var missing []string
	for _, f := range tmpl.DataElements.Fields {
		if f.Required && !got[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
