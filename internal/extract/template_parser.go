package extract

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
	"github.com/formvane/formvane/internal/template"
)

// TemplateParser extracts the fields a form template declares. Unlike
// the heuristic strategies it reads the page as an ordered sequence of
// lines and matches printed labels case-sensitively, so the same input
// always yields the same records.
type TemplateParser struct {
	opts     Options
	resolver *CheckboxResolver
	log      *slog.Logger
}

// NewTemplateParser returns a parser with the given tuning.
func NewTemplateParser(opts Options, log *slog.Logger) *TemplateParser {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TemplateParser{
		opts:     opts,
		resolver: NewCheckboxResolver(opts),
		log:      log,
	}
}

// line is one visual row of the page, tokens ordered left to right.
type line struct {
	words   []engine.Word
	indices []int
}

// ParseDocument extracts every declared field and checkbox of the
// template from the document.
func (p *TemplateParser) ParseDocument(doc engine.Document, tmpl *template.FormTemplate) []Record {
	var records []Record
	for n := 0; n < doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			p.log.Warn("skipping unreadable page", "page", n, "error", err)
			continue
		}
		records = append(records, p.ParsePage(page, tmpl)...)
	}
	return records
}

// ParsePage extracts the template's fields declared for this page.
// Fields with page_num 0 bind to the first page.
func (p *TemplateParser) ParsePage(page engine.Page, tmpl *template.FormTemplate) []Record {
	pageNum := page.Number() + 1
	lines := p.bucketLines(page.Words())
	labels := tmpl.Labels()

	var records []Record
	for _, field := range tmpl.DataElements.Fields {
		want := field.PageNum
		if want == 0 {
			want = 1
		}
		if want != pageNum {
			continue
		}
		if rec, ok := p.extractField(page, lines, field, labels); ok {
			records = append(records, rec)
		} else if field.Required {
			p.log.Warn("required template field not found",
				"form", tmpl.FormType, "field", field.Name, "page", pageNum)
		}
	}

	for _, cb := range tmpl.DataElements.Checkboxes {
		want := cb.PageNum
		if want == 0 {
			want = 1
		}
		if want != pageNum {
			continue
		}
		if rec, ok := p.extractCheckbox(page, cb); ok {
			records = append(records, rec)
		}
	}

	return records
}

// bucketLines groups words into visual lines by baseline proximity and
// orders them top to bottom, left to right.
func (p *TemplateParser) bucketLines(words []engine.Word) []line {
	order := make([]int, len(words))
	for i := range words {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := words[order[a]], words[order[b]]
		if wa.Rect.Y0 != wb.Rect.Y0 {
			return wa.Rect.Y0 < wb.Rect.Y0
		}
		return wa.Rect.X0 < wb.Rect.X0
	})

	var lines []line
	for _, i := range order {
		w := words[i]
		if len(lines) > 0 {
			last := &lines[len(lines)-1]
			if w.Rect.Y0-last.words[0].Rect.Y0 <= p.opts.LineBucket {
				last.words = append(last.words, w)
				last.indices = append(last.indices, i)
				continue
			}
		}
		lines = append(lines, line{words: []engine.Word{w}, indices: []int{i}})
	}

	for li := range lines {
		l := &lines[li]
		sort.SliceStable(l.indices, func(a, b int) bool {
			return words[l.indices[a]].Rect.X0 < words[l.indices[b]].Rect.X0
		})
		sort.SliceStable(l.words, func(a, b int) bool {
			return l.words[a].Rect.X0 < l.words[b].Rect.X0
		})
	}
	return lines
}

// extractField finds the field's label occurrence and pulls its value
// from the remainder of the label's line, falling back to the lines
// below when the same-line remainder is empty or fails the field's
// type check.
func (p *TemplateParser) extractField(page engine.Page, lines []line, field template.FieldConfig, allLabels []string) (Record, bool) {
	wantInstance := field.Instance
	if wantInstance == 0 {
		wantInstance = 1
	}

	seen := 0
	for li, l := range lines {
		for pos := 0; pos < len(l.words); pos++ {
			end, rect, ok := matchLabelInLine(l, pos, field.Label)
			if !ok {
				continue
			}
			seen++
			if seen < wantInstance {
				pos = end - 1
				continue
			}

			if value, vr, ok := p.valueAfter(l, end, allLabels, field.Type); ok {
				return fieldRecord(field, value, page.Number(), rect.Union(vr)), true
			}
			// Same line gave nothing usable; try the lines below.
			for below := li + 1; below < len(lines) && below <= li+2; below++ {
				if value, vr, ok := p.valueAfter(lines[below], 0, allLabels, field.Type); ok {
					return fieldRecord(field, value, page.Number(), rect.Union(vr)), true
				}
			}
			if field.AllowEmpty {
				return fieldRecord(field, "", page.Number(), rect), true
			}
			return Record{}, false
		}
	}
	return Record{}, false
}

// matchLabelInLine tests whether the label's words run contiguously
// from position pos of the line, case-sensitively. A trailing colon on
// the final token or on the declared label itself is ignored, so
// "Surname" and "Surname:" match either way. It returns the position
// past the label and the label's bounding rectangle.
func matchLabelInLine(l line, pos int, label string) (int, geom.Rect, bool) {
	parts := strings.Fields(label)
	if len(parts) == 0 || pos+len(parts) > len(l.words) {
		return 0, geom.Rect{}, false
	}
	var rect geom.Rect
	for j, part := range parts {
		token := strings.TrimSpace(l.words[pos+j].Text)
		if j == len(parts)-1 {
			token = strings.TrimSuffix(token, ":")
			part = strings.TrimSuffix(part, ":")
		}
		if token != part {
			return 0, geom.Rect{}, false
		}
		rect = rect.Union(l.words[pos+j].Rect)
	}
	return pos + len(parts), rect, true
}

// valueAfter collects the line's tokens from position start until
// another declared label begins, cleans them, and applies the field's
// type check.
func (p *TemplateParser) valueAfter(l line, start int, allLabels []string, ft template.FieldType) (string, geom.Rect, bool) {
	var (
		parts []string
		rect  geom.Rect
	)
	for pos := start; pos < len(l.words); pos++ {
		if startsAnyLabel(l, pos, allLabels) {
			break
		}
		text := l.words[pos].Text
		if isArtifactOnly(text) || isMarkerGlyph(text) {
			continue
		}
		parts = append(parts, text)
		rect = rect.Union(l.words[pos].Rect)
	}

	value := CleanValue(strings.Join(parts, " "))
	if value == "" || !ft.Accepts(value) {
		return "", geom.Rect{}, false
	}
	return value, rect, true
}

// startsAnyLabel reports whether any declared label begins at the given
// line position. Longer labels are checked first so a prefix label
// cannot hide a longer one.
func startsAnyLabel(l line, pos int, allLabels []string) bool {
	for _, label := range sortedByLength(allLabels) {
		if _, _, ok := matchLabelInLine(l, pos, label); ok {
			return true
		}
	}
	return false
}

func fieldRecord(field template.FieldConfig, value string, pageNum int, rect geom.Rect) Record {
	return Record{
		Key:    field.Name,
		Value:  value,
		Page:   pageNum,
		Rect:   rect,
		Method: MethodConfigField,
	}
}

// extractCheckbox resolves one declared checkbox by its printed label.
// Undecidable checkboxes still produce a record so downstream review
// can see the gap.
func (p *TemplateParser) extractCheckbox(page engine.Page, cb template.CheckboxConfig) (Record, bool) {
	rects := page.SearchText(cb.Label)
	if len(rects) == 0 {
		return Record{}, false
	}
	state, markRect := p.resolver.Resolve(page, rects[0], nil)
	return Record{
		Key:    cb.Name,
		Value:  string(state),
		Page:   page.Number(),
		Rect:   rects[0].Union(markRect),
		Method: MethodConfigCheckbox,
	}, true
}
