// Package export serializes extraction results as CSV and JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/formvane/formvane/internal/process"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{"file", "form_type", "status", "page", "key", "value", "method", "coordinates"}

// WriteCSV emits one row per extracted record. Documents without
// records still appear as a single row carrying their status, so a
// failed or empty file is visible in the output.
func WriteCSV(w io.Writer, results []process.DocumentResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, res := range results {
		if len(res.Records) == 0 {
			row := []string{res.File, res.FormType, string(res.Status), "", "", "", "", ""}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
			continue
		}
		for _, rec := range res.Records {
			row := []string{
				res.File,
				res.FormType,
				string(res.Status),
				fmt.Sprintf("%d", rec.Page),
				rec.Key,
				rec.Value,
				string(rec.Method),
				rec.Coords(),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// jsonRecord mirrors an extraction record with its provenance
// serialized in the stored coordinate format.
type jsonRecord struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Page        int    `json:"page"`
	Method      string `json:"method"`
	Coordinates string `json:"coordinates"`
}

type jsonResult struct {
	File            string       `json:"file"`
	FormType        string       `json:"form_type,omitempty"`
	Status          string       `json:"status"`
	Records         []jsonRecord `json:"records"`
	MissingRequired []string     `json:"missing_required,omitempty"`
	Error           string       `json:"error,omitempty"`
}

// jsonReport is the top-level JSON export document.
type jsonReport struct {
	Summary Summary      `json:"summary"`
	Results []jsonResult `json:"results"`
}

// WriteJSON emits the full result set with a batch summary, indented
// for human review.
func WriteJSON(w io.Writer, results []process.DocumentResult) error {
	report := jsonReport{
		Summary: Summarize(results),
		Results: make([]jsonResult, 0, len(results)),
	}
	for _, res := range results {
		jr := jsonResult{
			File:            res.File,
			FormType:        res.FormType,
			Status:          string(res.Status),
			Records:         make([]jsonRecord, 0, len(res.Records)),
			MissingRequired: res.MissingRequired,
			Error:           res.Error,
		}
		for _, rec := range res.Records {
			jr.Records = append(jr.Records, jsonRecord{
				Key:         rec.Key,
				Value:       rec.Value,
				Page:        rec.Page,
				Method:      string(rec.Method),
				Coordinates: rec.Coords(),
			})
		}
		report.Results = append(report.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Summary aggregates a batch of document results.
type Summary struct {
	Documents int `json:"documents"`
	Succeeded int `json:"succeeded"`
	NoData    int `json:"no_data"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
}

// Summarize tallies results by status.
func Summarize(results []process.DocumentResult) Summary {
	s := Summary{Documents: len(results)}
	for _, res := range results {
		switch res.Status {
		case process.StatusSuccess:
			s.Succeeded++
		case process.StatusNoData:
			s.NoData++
		default:
			s.Failed++
		}
		s.Records += len(res.Records)
	}
	return s
}
