package extract

import (
	"sort"
	"strings"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

// Options tunes the spatial heuristics. Distances are in page units
// (PDF points for the built-in adapters).
type Options struct {
	// MaxRightDistance bounds the same-line search region to the right
	// of a label.
	MaxRightDistance float64
	// YTolerance is the vertical slack of the same-line region, and the
	// left-alignment slack of the next-line region.
	YTolerance float64
	// MaxBelowGap bounds the next-line search region under a label.
	MaxBelowGap float64
	// ChainGapX is the largest horizontal gap between consecutive value
	// tokens; a wider gap ends the value span.
	ChainGapX float64
	// ChainGapY is the baseline jitter tolerated while chaining value
	// tokens on one line.
	ChainGapY float64
	// BelowMisalignWeight scales horizontal misalignment when scoring
	// next-line candidates against same-line ones.
	BelowMisalignWeight float64
	// CheckboxRadius bounds the search for markers and shapes around a
	// checkbox label.
	CheckboxRadius float64
	// LineBucket is the vertical bucket width used by the template
	// parser when grouping tokens into lines.
	LineBucket float64
	// CompoundLabels and StandaloneLabels override the built-in label
	// dictionaries when non-nil.
	CompoundLabels   []string
	StandaloneLabels []string
	// CheckboxGroups override the built-in checkbox option groups when
	// non-nil.
	CheckboxGroups [][]string
}

// DefaultOptions returns the tuning the engine ships with.
func DefaultOptions() Options {
	return Options{
		MaxRightDistance:    300,
		YTolerance:          10,
		MaxBelowGap:         40,
		ChainGapX:           10,
		ChainGapY:           3,
		BelowMisalignWeight: 0.5,
		CheckboxRadius:      50,
		LineBucket:          4,
	}
}

// ValueAssociator finds the bounded value span for a label anchor.
type ValueAssociator struct {
	opts  Options
	known []string
}

// NewValueAssociator returns an associator that stops value spans at
// any of the known label phrases.
func NewValueAssociator(opts Options, knownLabels []string) *ValueAssociator {
	return &ValueAssociator{opts: opts, known: knownLabels}
}

// candidate is a token competing to start a value span.
type candidate struct {
	index    int
	distance float64
}

// Associate finds the value for the given label anchor. Candidate
// tokens come from two regions: same-line (rightward of the label) and
// next-line (below, roughly left-aligned). The nearest candidate seeds
// the span, which then grows in reading order until a wide gap, another
// label, or the region edge. When nothing qualifies the span is empty
// and carries the anchor itself as provenance; the caller decides
// whether an empty value is still worth recording.
func (a *ValueAssociator) Associate(words []engine.Word, anchor geom.Rect, pctx *PageContext) ValueSpan {
	sameLine := geom.Rect{
		X0: anchor.X1,
		Y0: anchor.Y0 - a.opts.YTolerance,
		X1: anchor.X1 + a.opts.MaxRightDistance,
		Y1: anchor.Y1 + a.opts.YTolerance,
	}
	nextLine := geom.Rect{
		X0: anchor.X0 - a.opts.YTolerance,
		Y0: anchor.Y1,
		X1: anchor.X0 + a.opts.MaxRightDistance,
		Y1: anchor.Y1 + a.opts.MaxBelowGap,
	}

	var candidates []candidate
	for i, w := range words {
		if pctx.Consumed(i) || !a.isValueToken(w.Text) {
			continue
		}
		if a.startsKnownLabel(words, i, pctx) {
			continue
		}
		switch {
		case w.Rect.Intersects(sameLine):
			// Same-line candidates compete on horizontal gap alone.
			gap := w.Rect.X0 - anchor.X1
			if gap < 0 {
				gap = 0
			}
			candidates = append(candidates, candidate{index: i, distance: gap})
		case w.Rect.Intersects(nextLine):
			vGap := w.Rect.Y0 - anchor.Y1
			if vGap < 0 {
				vGap = 0
			}
			misalign := w.Rect.X0 - anchor.X0
			if misalign < 0 {
				misalign = -misalign
			}
			candidates = append(candidates, candidate{index: i, distance: vGap + a.opts.BelowMisalignWeight*misalign})
		}
	}

	if len(candidates) == 0 {
		return ValueSpan{Text: "", Rect: anchor}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		// Equidistant candidates tie-break on centroid distance.
		di := words[candidates[i].index].Rect.CenterDistance(anchor)
		dj := words[candidates[j].index].Rect.CenterDistance(anchor)
		return di < dj
	})

	start := candidates[0].index
	span := a.chain(words, start, sameLine.Union(nextLine), pctx)

	text := CleanValue(joinWords(words, span))
	rect := unionRects(words, span)
	pctx.Consume(span...)

	return ValueSpan{Text: text, Rect: rect, TokenIndices: span}
}

// chain grows a value span from the start token, absorbing subsequent
// tokens in left-to-right reading order. The span ends at the first
// wide horizontal gap, at the start of another known label, or at the
// region edge.
func (a *ValueAssociator) chain(words []engine.Word, start int, region geom.Rect, pctx *PageContext) []int {
	span := []int{start}
	last := words[start].Rect

	// Candidates to the right of the start token on the same baseline.
	var followers []int
	for i, w := range words {
		if i == start || pctx.Consumed(i) {
			continue
		}
		if !w.Rect.Intersects(region) {
			continue
		}
		if w.Rect.X0 < words[start].Rect.X0 {
			continue
		}
		dy := w.Rect.Y0 - words[start].Rect.Y0
		if dy < 0 {
			dy = -dy
		}
		if dy > a.opts.ChainGapY {
			continue
		}
		followers = append(followers, i)
	}
	sort.SliceStable(followers, func(i, j int) bool {
		return words[followers[i]].Rect.X0 < words[followers[j]].Rect.X0
	})

	for _, i := range followers {
		w := words[i]
		if w.Rect.X0-last.X1 > a.opts.ChainGapX {
			break
		}
		if a.startsKnownLabel(words, i, pctx) || isColonLabel(w.Text) {
			break
		}
		span = append(span, i)
		last = w.Rect
	}

	return span
}

// startsKnownLabel reports whether the token run beginning at index i
// exactly matches one of the known label phrases.
func (a *ValueAssociator) startsKnownLabel(words []engine.Word, i int, pctx *PageContext) bool {
	for _, label := range a.known {
		if _, ok := matchSequenceAt(words, i, label, false, nil); ok {
			return true
		}
	}
	return false
}

// isValueToken filters out tokens that can never start a value: other
// labels, checkbox marker glyphs, and pure form-fill artifacts.
func (a *ValueAssociator) isValueToken(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || isArtifactOnly(text) {
		return false
	}
	if isColonLabel(text) {
		return false
	}
	if isMarkerGlyph(text) {
		return false
	}
	return true
}

func joinWords(words []engine.Word, indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, words[i].Text)
	}
	return strings.Join(parts, " ")
}

func unionRects(words []engine.Word, indices []int) geom.Rect {
	var rect geom.Rect
	for _, i := range indices {
		rect = rect.Union(words[i].Rect)
	}
	return rect
}
