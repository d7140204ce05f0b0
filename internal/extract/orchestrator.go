package extract

import (
	"log/slog"

	"github.com/formvane/formvane/internal/engine"
)

// Orchestrator runs the extraction strategies over a document in fixed
// priority order: widgets, tables, compound labels, colon labels,
// checkbox groups, standalone labels. Higher-priority strategies
// consume tokens and claim keys first; a panicking strategy loses only
// its own pass.
type Orchestrator struct {
	strategies []Strategy
	log        *slog.Logger
}

// NewOrchestrator wires the strategy chain from the given tuning.
// A nil logger discards diagnostics.
func NewOrchestrator(opts Options, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	detector := NewLabelDetector(opts.CompoundLabels, opts.StandaloneLabels)
	associator := NewValueAssociator(opts, detector.KnownLabels())
	resolver := NewCheckboxResolver(opts)
	groups := opts.CheckboxGroups
	if groups == nil {
		groups = DefaultCheckboxGroups()
	}

	return &Orchestrator{
		strategies: []Strategy{
			WidgetStrategy{},
			TableStrategy{},
			CompoundLabelStrategy{detector: detector, associator: associator},
			ColonLabelStrategy{detector: detector, associator: associator},
			CheckboxGroupStrategy{resolver: resolver, groups: groups},
			StandaloneLabelStrategy{detector: detector, associator: associator},
		},
		log: log,
	}
}

// ExtractPage runs every strategy over one page and returns the merged
// records. Keys deduplicate per page, first writer wins. A strategy
// that panics is logged and skipped; the records of the strategies
// before and after it survive.
func (o *Orchestrator) ExtractPage(page engine.Page) []Record {
	pctx := NewPageContext()
	var records []Record
	for _, s := range o.strategies {
		recs := o.runStrategy(s, page, pctx)
		records = append(records, recs...)
	}
	return records
}

func (o *Orchestrator) runStrategy(s Strategy, page engine.Page, pctx *PageContext) (records []Record) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Warn("extraction strategy failed",
				"strategy", s.Name(),
				"page", page.Number(),
				"panic", r)
			records = nil
		}
	}()
	return s.Extract(page, pctx)
}

// ExtractDocument runs the strategy chain over every page. A page that
// fails to load is logged and skipped, never aborting the document.
func (o *Orchestrator) ExtractDocument(doc engine.Document) []Record {
	var records []Record
	for n := 0; n < doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			o.log.Warn("skipping unreadable page", "page", n, "error", err)
			continue
		}
		records = append(records, o.ExtractPage(page)...)
	}
	return records
}
