package extract

import (
	"sort"
	"strings"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

// DefaultCompoundLabels returns the built-in dictionary of multi-word
// label phrases recognized without a template. The matcher itself is
// pattern-agnostic; callers may replace or extend this set through
// Options.
func DefaultCompoundLabels() []string {
	return []string{
		"Date of Birth",
		"Place of Birth",
		"Passport No.",
		"I.D Card No.",
		"ID Number",
		"Marital Status",
		"Next of Kin",
		"Full Name",
		"First Name",
		"Last Name",
		"Middle Name",
		"Postal Address",
		"Residential Address",
		"Email Address",
		"Phone Number",
		"Contact Number",
		"Level of Education",
		"No of Dependants",
		"Gross Monthly Income",
		"Net Monthly Income",
		"Loan Amount",
		"Loan Purpose",
		"Term Preferred",
		"Account Number",
		"Sort Code",
	}
}

// DefaultStandaloneLabels returns the built-in dictionary of bare
// single-word labels tried after every other label source.
func DefaultStandaloneLabels() []string {
	return []string{
		"Surname",
		"Forename",
		"Forenames",
		"Name",
		"Address",
		"Nationality",
		"Occupation",
		"Employer",
		"Tel",
		"Cell",
		"Email",
		"Signature",
	}
}

// LabelDetector finds candidate label anchors on a page: declared
// template labels, compound dictionary phrases, and ad hoc
// colon-terminated tokens.
type LabelDetector struct {
	compound   []string
	standalone []string
}

// NewLabelDetector returns a detector over the given dictionaries.
// Nil slices select the built-in defaults.
func NewLabelDetector(compound, standalone []string) *LabelDetector {
	if compound == nil {
		compound = DefaultCompoundLabels()
	}
	if standalone == nil {
		standalone = DefaultStandaloneLabels()
	}
	return &LabelDetector{compound: compound, standalone: standalone}
}

// MatchCompound scans unconsumed tokens for contiguous runs equal to a
// compound dictionary phrase, case-insensitively. Longer phrases are
// tried first so "Date of Birth" is never shadowed by a shorter phrase
// sharing its prefix.
func (d *LabelDetector) MatchCompound(words []engine.Word, pctx *PageContext) []LabelMatch {
	ordered := sortedByLength(d.compound)

	var matches []LabelMatch
	for i := range words {
		if pctx.Consumed(i) {
			continue
		}
		for _, label := range ordered {
			m, ok := matchSequenceAt(words, i, label, false, pctx)
			if !ok {
				continue
			}
			pctx.Consume(m.TokenIndices...)
			matches = append(matches, m)
			break
		}
	}
	return matches
}

// MatchColon finds ad hoc labels: any unconsumed token ending in a
// colon, longer than the colon itself and not purely numeric.
func (d *LabelDetector) MatchColon(words []engine.Word, pctx *PageContext) []LabelMatch {
	var matches []LabelMatch
	for i, w := range words {
		if pctx.Consumed(i) {
			continue
		}
		if !isColonLabel(w.Text) {
			continue
		}
		pctx.Consume(i)
		matches = append(matches, LabelMatch{
			Text:         w.Text,
			Rect:         w.Rect,
			TokenIndices: []int{i},
		})
	}
	return matches
}

// MatchStandalone finds bare dictionary labels among unconsumed tokens.
// A label is skipped when an earlier strategy already emitted a
// semantically overlapping key for this page.
func (d *LabelDetector) MatchStandalone(words []engine.Word, pctx *PageContext) []LabelMatch {
	var matches []LabelMatch
	for i, w := range words {
		if pctx.Consumed(i) {
			continue
		}
		text := strings.TrimSpace(w.Text)
		for _, label := range d.standalone {
			if !strings.EqualFold(text, label) {
				continue
			}
			if pctx.HasOverlappingKey(label) {
				break
			}
			pctx.Consume(i)
			matches = append(matches, LabelMatch{
				Text:         w.Text,
				Rect:         w.Rect,
				TokenIndices: []int{i},
			})
			break
		}
	}
	return matches
}

// KnownLabels returns every label phrase the detector recognizes, used
// by the value associator's boundary check.
func (d *LabelDetector) KnownLabels() []string {
	known := make([]string, 0, len(d.compound)+len(d.standalone))
	known = append(known, d.compound...)
	known = append(known, d.standalone...)
	return known
}

// isColonLabel reports whether the token is an ad hoc colon-terminated
// label.
func isColonLabel(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) <= 1 || !strings.HasSuffix(text, ":") {
		return false
	}
	body := strings.TrimSuffix(text, ":")
	return !isNumeric(body)
}

// matchSequenceAt tests whether the label's words match a contiguous,
// unconsumed, same-line token run starting at index start. Trailing
// colons on the final label word and on the token are both ignored.
func matchSequenceAt(words []engine.Word, start int, label string, caseSensitive bool, pctx *PageContext) (LabelMatch, bool) {
	parts := strings.Fields(label)
	if len(parts) == 0 || start+len(parts) > len(words) {
		return LabelMatch{}, false
	}

	var rect geom.Rect
	indices := make([]int, 0, len(parts))
	for j, part := range parts {
		idx := start + j
		if pctx != nil && pctx.Consumed(idx) {
			return LabelMatch{}, false
		}
		token := strings.TrimSpace(words[idx].Text)
		if j == len(parts)-1 {
			token = strings.TrimSuffix(token, ":")
			part = strings.TrimSuffix(part, ":")
		}
		if !tokenEquals(token, part, caseSensitive) {
			return LabelMatch{}, false
		}
		if j > 0 && !onSameLine(words[start+j-1].Rect, words[idx].Rect) {
			return LabelMatch{}, false
		}
		rect = rect.Union(words[idx].Rect)
		indices = append(indices, idx)
	}

	return LabelMatch{Text: label, Rect: rect, TokenIndices: indices}, true
}

func tokenEquals(token, part string, caseSensitive bool) bool {
	if caseSensitive {
		return token == part
	}
	return strings.EqualFold(token, part)
}

func onSameLine(a, b geom.Rect) bool {
	diff := a.Y0 - b.Y0
	if diff < 0 {
		diff = -diff
	}
	return diff <= 3.0
}

// sortedByLength orders label phrases longest first: by token count,
// then by character length, so a short label never shadows a longer
// one containing it as a prefix.
func sortedByLength(labels []string) []string {
	ordered := make([]string, len(labels))
	copy(ordered, labels)
	sort.SliceStable(ordered, func(i, j int) bool {
		wi, wj := len(strings.Fields(ordered[i])), len(strings.Fields(ordered[j]))
		if wi != wj {
			return wi > wj
		}
		return len(ordered[i]) > len(ordered[j])
	})
	return ordered
}
