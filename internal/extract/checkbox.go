package extract

import (
	"strings"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

// CheckboxState is the resolved state of a checkbox near a label.
type CheckboxState string

const (
	StateChecked   CheckboxState = "Checked"
	StateUnchecked CheckboxState = "Unchecked"
	StateNotFound  CheckboxState = "Not Found"
)

// markerGlyphs are the short tokens that represent a filled checkbox.
var markerGlyphs = map[string]bool{
	"x": true,
	"X": true,
	"✓": true,
	"✔": true,
	"☑": true,
	"√": true,
	"■": true,
	"●": true,
}

// isMarkerGlyph reports whether the token is a checkmark glyph.
func isMarkerGlyph(text string) bool {
	return markerGlyphs[strings.TrimSpace(text)]
}

// containsMarker reports whether the clipped text of a box interior
// holds a checkmark glyph.
func containsMarker(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "x") || strings.Contains(lower, "✓") ||
		strings.Contains(lower, "✔") || strings.Contains(lower, "☑") ||
		strings.Contains(lower, "√")
}

// Plausible checkbox dimensions; vector shapes outside this range are
// table borders or decoration, not checkboxes.
const (
	minCheckboxSide = 5.0
	maxCheckboxSide = 100.0
)

// CheckboxResolver determines checked/unchecked state from widget
// records, marker glyphs, or vector line-art boxes near a label.
type CheckboxResolver struct {
	opts Options
}

// NewCheckboxResolver returns a resolver with the given tuning.
func NewCheckboxResolver(opts Options) *CheckboxResolver {
	return &CheckboxResolver{opts: opts}
}

// Resolve determines the state of the checkbox belonging to the label
// at labelRect. A widget of checkbox/radio type in the label's vicinity
// decides directly and overrides the weaker spatial signals; otherwise
// a marker glyph near the label means checked, and failing that the
// nearest plausible vector box is inspected for a marker. With no
// signal at all the state is Not Found and the zero rectangle is
// returned.
//
// used carries the marker and shape rectangles already claimed by other
// options of the same group, so one glyph is never assigned twice; pass
// nil when resolving a lone checkbox.
func (r *CheckboxResolver) Resolve(page engine.Page, labelRect geom.Rect, used *UsedMarks) (CheckboxState, geom.Rect) {
	vicinity := labelRect.Expand(r.opts.CheckboxRadius)

	// Widget state is authoritative when present.
	for _, w := range page.Widgets() {
		if w.Type != engine.WidgetCheckbox && w.Type != engine.WidgetRadio {
			continue
		}
		if !w.Rect.Intersects(vicinity) || (used != nil && used.Has(w.Rect)) {
			continue
		}
		if used != nil {
			used.Add(w.Rect)
		}
		if w.Value != "" && w.Value != "Off" {
			return StateChecked, w.Rect
		}
		return StateUnchecked, w.Rect
	}

	// Marker glyph within the search radius.
	if rect, ok := r.nearestMarker(page, vicinity, labelRect, used); ok {
		if used != nil {
			used.Add(rect)
		}
		return StateChecked, rect
	}

	// Vector box: nearest plausible shape, decided by its interior.
	shape, ok := r.nearestShape(page, vicinity, labelRect, used)
	if !ok {
		return StateNotFound, geom.Rect{}
	}
	if used != nil {
		used.Add(shape)
	}
	if containsMarker(page.TextInRegion(shape)) {
		return StateChecked, shape
	}
	return StateUnchecked, shape
}

// nearestMarker finds the unclaimed marker glyph closest to the label
// centroid within the vicinity.
func (r *CheckboxResolver) nearestMarker(page engine.Page, vicinity, labelRect geom.Rect, used *UsedMarks) (geom.Rect, bool) {
	best := geom.Rect{}
	bestDist := -1.0
	for _, w := range page.Words() {
		if !isMarkerGlyph(w.Text) || !w.Rect.Intersects(vicinity) {
			continue
		}
		if used != nil && used.Has(w.Rect) {
			continue
		}
		d := w.Rect.CenterDistance(labelRect)
		if bestDist < 0 || d < bestDist {
			best = w.Rect
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// nearestShape finds the unclaimed plausible checkbox shape with the
// minimum centroid distance to the label. Equidistant shapes resolve
// deterministically to the smaller total Euclidean distance, never to
// an error.
func (r *CheckboxResolver) nearestShape(page engine.Page, vicinity, labelRect geom.Rect, used *UsedMarks) (geom.Rect, bool) {
	best := geom.Rect{}
	bestDist := -1.0
	for _, s := range page.VectorShapes() {
		if s.IsEmpty() || !s.Intersects(vicinity) {
			continue
		}
		if s.Width() < minCheckboxSide || s.Width() > maxCheckboxSide ||
			s.Height() < minCheckboxSide || s.Height() > maxCheckboxSide {
			continue
		}
		if used != nil && used.Has(s) {
			continue
		}
		d := s.CenterDistance(labelRect)
		if bestDist < 0 || d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// UsedMarks tracks marker/shape rectangles already claimed while
// resolving a checkbox group.
type UsedMarks struct {
	rects []geom.Rect
}

// NewUsedMarks returns an empty claim set.
func NewUsedMarks() *UsedMarks { return &UsedMarks{} }

// Has reports whether the rectangle was already claimed.
func (u *UsedMarks) Has(r geom.Rect) bool {
	for _, x := range u.rects {
		if x == r {
			return true
		}
	}
	return false
}

// Add claims a rectangle.
func (u *UsedMarks) Add(r geom.Rect) {
	u.rects = append(u.rects, r)
}

// DefaultCheckboxGroups returns the built-in checkbox option groups
// recognized without a template: each option word is its own label,
// resolved against a shared claim set.
func DefaultCheckboxGroups() [][]string {
	return [][]string{
		{"Mr", "Mrs", "Miss", "Ms"},
		{"Male", "Female"},
		{"Married", "Single", "Divorced", "Widowed"},
		{"Yes", "No"},
	}
}

// ResolvedOption is one decided option of a checkbox group: its label
// text, state, and the rectangle spanning the label and its mark.
type ResolvedOption struct {
	Option string
	State  CheckboxState
	Rect   geom.Rect
}

// ResolveGroup resolves every option of a checkbox group. Each option
// word is searched as its own label; options share one claim set so a
// single marker glyph cannot satisfy two of them. Only decided options
// are returned, in declaration order.
func (r *CheckboxResolver) ResolveGroup(page engine.Page, options []string) []ResolvedOption {
	used := NewUsedMarks()
	var resolved []ResolvedOption
	for _, option := range options {
		rects := page.SearchText(option)
		if len(rects) == 0 {
			continue
		}
		state, markRect := r.Resolve(page, rects[0], used)
		if state == StateNotFound {
			continue
		}
		resolved = append(resolved, ResolvedOption{
			Option: option,
			State:  state,
			Rect:   rects[0].Union(markRect),
		})
	}
	return resolved
}
