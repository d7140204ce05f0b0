package extract

import (
	"github.com/formvane/formvane/internal/engine"
)

// Strategy is one extraction pass over a page. Strategies run in a
// fixed priority order and communicate only through the shared
// PageContext: tokens consumed by an earlier strategy are invisible to
// later ones, and a key rejected by MarkKey is discarded.
type Strategy interface {
	Name() string
	Extract(page engine.Page, pctx *PageContext) []Record
}

// WidgetStrategy reads interactive form fields. Widget values are
// authoritative, so this runs before every spatial heuristic.
type WidgetStrategy struct{}

func (WidgetStrategy) Name() string { return "widgets" }

func (WidgetStrategy) Extract(page engine.Page, pctx *PageContext) []Record {
	var records []Record
	for _, w := range page.Widgets() {
		if w.Name == "" {
			continue
		}
		key := TitleKey(w.Name)
		if key == "" {
			continue
		}

		var value string
		switch w.Type {
		case engine.WidgetCheckbox, engine.WidgetRadio:
			if w.Value == "" || w.Value == "Off" {
				continue
			}
			value = string(StateChecked)
		case engine.WidgetText, engine.WidgetCombo, engine.WidgetList:
			value = CleanValue(w.Value)
			if value == "" {
				continue
			}
		default:
			continue
		}

		if !pctx.MarkKey(key) {
			continue
		}
		records = append(records, Record{
			Key:    key,
			Value:  value,
			Page:   page.Number(),
			Rect:   w.Rect,
			Method: MethodWidget,
		})
	}
	return records
}

// TableStrategy flattens detected tables into per-cell records and
// consumes every word inside a table region, keeping tabular content
// out of the label heuristics below it.
type TableStrategy struct{}

func (TableStrategy) Name() string { return "tables" }

func (TableStrategy) Extract(page engine.Page, pctx *PageContext) []Record {
	var records []Record
	words := page.Words()
	for tableNum, table := range page.Tables() {
		bounds := tableBounds(table)
		for i, w := range words {
			if w.Rect.Intersects(bounds) {
				pctx.Consume(i)
			}
		}
		for _, rec := range NormalizeTable(table, tableNum+1, page.Number()) {
			if pctx.MarkKey(rec.Key) {
				records = append(records, rec)
			}
		}
	}
	return records
}

// CompoundLabelStrategy matches multi-word dictionary labels and
// associates each with a value span.
type CompoundLabelStrategy struct {
	detector   *LabelDetector
	associator *ValueAssociator
}

func (CompoundLabelStrategy) Name() string { return "compound-labels" }

func (s CompoundLabelStrategy) Extract(page engine.Page, pctx *PageContext) []Record {
	return emitLabelRecords(page, pctx, s.detector.MatchCompound(page.Words(), pctx), s.associator, MethodCompoundLabel)
}

// ColonLabelStrategy matches ad hoc colon-terminated tokens.
type ColonLabelStrategy struct {
	detector   *LabelDetector
	associator *ValueAssociator
}

func (ColonLabelStrategy) Name() string { return "colon-labels" }

func (s ColonLabelStrategy) Extract(page engine.Page, pctx *PageContext) []Record {
	return emitLabelRecords(page, pctx, s.detector.MatchColon(page.Words(), pctx), s.associator, MethodFormField)
}

// StandaloneLabelStrategy matches bare single-word dictionary labels,
// the weakest signal and therefore the last label pass.
type StandaloneLabelStrategy struct {
	detector   *LabelDetector
	associator *ValueAssociator
}

func (StandaloneLabelStrategy) Name() string { return "standalone-labels" }

func (s StandaloneLabelStrategy) Extract(page engine.Page, pctx *PageContext) []Record {
	return emitLabelRecords(page, pctx, s.detector.MatchStandalone(page.Words(), pctx), s.associator, MethodLabelMatch)
}

// emitLabelRecords turns label matches into records via value
// association. Labels without a value are dropped: only the template
// parser may record an empty value deliberately.
func emitLabelRecords(page engine.Page, pctx *PageContext, matches []LabelMatch, associator *ValueAssociator, method Method) []Record {
	var records []Record
	words := page.Words()
	for _, m := range matches {
		span := associator.Associate(words, m.Rect, pctx)
		if span.Text == "" {
			continue
		}
		key := TitleKey(m.Text)
		if key == "" || !pctx.MarkKey(key) {
			continue
		}
		records = append(records, Record{
			Key:    key,
			Value:  span.Text,
			Page:   page.Number(),
			Rect:   m.Rect.Union(span.Rect),
			Method: method,
		})
	}
	return records
}

// CheckboxGroupStrategy resolves the built-in option groups (titles,
// gender, marital status). Options of one group share a claim set so a
// single marker never satisfies two of them; only checked options
// become records.
type CheckboxGroupStrategy struct {
	resolver *CheckboxResolver
	groups   [][]string
}

func (CheckboxGroupStrategy) Name() string { return "checkbox-groups" }

func (s CheckboxGroupStrategy) Extract(page engine.Page, pctx *PageContext) []Record {
	var records []Record
	for _, group := range s.groups {
		for _, opt := range s.resolver.ResolveGroup(page, group) {
			if opt.State != StateChecked {
				continue
			}
			if !pctx.MarkKey(opt.Option) {
				continue
			}
			records = append(records, Record{
				Key:    opt.Option,
				Value:  string(StateChecked),
				Page:   page.Number(),
				Rect:   opt.Rect,
				Method: MethodCheckboxOption,
			})
		}
	}
	return records
}
