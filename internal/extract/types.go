// Package extract implements the heuristic key-value extraction engine:
// label detection, value association, checkbox resolution, table
// normalization, the template-driven sequential parser, and the
// orchestrator that reconciles the competing strategies.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formvane/formvane/internal/geom"
)

// Method names the strategy that produced an extraction record.
type Method string

const (
	MethodWidget         Method = "Widget"
	MethodTable          Method = "Table"
	MethodCompoundLabel  Method = "Compound Label"
	MethodFormField      Method = "Form Field"
	MethodLabelMatch     Method = "Label Match"
	MethodCheckboxOption Method = "Checkbox Option"
	MethodConfigField    Method = "Config Field"
	MethodConfigCheckbox Method = "Config Checkbox"
)

// Record is a single extracted (key, value) pair with its provenance.
type Record struct {
	Key    string    `json:"key"`
	Value  string    `json:"value"`
	Page   int       `json:"page"`
	Rect   geom.Rect `json:"-"`
	Method Method    `json:"method"`
}

// Coords returns the provenance rectangle serialized as "x0,y0,x1,y1",
// the format stored alongside persisted records.
func (r Record) Coords() string {
	return r.Rect.String()
}

// ParseCoords parses a stored "x0,y0,x1,y1" provenance string. A string
// that does not parse into four numbers, or parses into a degenerate
// all-zero rectangle, is malformed; callers skip such records with a
// warning rather than failing.
func ParseCoords(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("malformed coordinates %q: expected 4 components, got %d", s, len(parts))
	}
	coords := make([]float64, 4)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("malformed coordinates %q: %w", s, err)
		}
		coords[i] = f
	}
	rect := geom.NewRect(coords[0], coords[1], coords[2], coords[3])
	if rect.IsZero() {
		return geom.Rect{}, fmt.Errorf("degenerate coordinates %q", s)
	}
	return rect, nil
}

// LabelMatch is a recognized label occupying one or more tokens.
type LabelMatch struct {
	Text         string
	Rect         geom.Rect
	TokenIndices []int
}

// ValueSpan is the associated value for a label. Text may be empty when
// no candidate token was found, in which case Rect is the label's own
// rectangle.
type ValueSpan struct {
	Text         string
	Rect         geom.Rect
	TokenIndices []int
}

// PageContext is the mutable state shared by the strategies during one
// page's processing pass: token indices already consumed and keys
// already emitted. It is owned by the orchestrator, scoped to a single
// page, and never retained afterwards.
type PageContext struct {
	consumed map[int]bool
	keys     map[string]bool
	keyList  []string
}

// NewPageContext returns an empty per-page context.
func NewPageContext() *PageContext {
	return &PageContext{
		consumed: map[int]bool{},
		keys:     map[string]bool{},
	}
}

// Consume marks token indices as used by a label or value span.
func (c *PageContext) Consume(indices ...int) {
	for _, i := range indices {
		c.consumed[i] = true
	}
}

// Consumed reports whether the token index was already used this pass.
func (c *PageContext) Consumed(i int) bool {
	return c.consumed[i]
}

// MarkKey records an emitted key. It returns false when the key was
// already emitted this page, in which case the caller must discard its
// record: the first writer wins.
func (c *PageContext) MarkKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if c.keys[k] {
		return false
	}
	c.keys[k] = true
	c.keyList = append(c.keyList, k)
	return true
}

// HasKey reports whether the key was already emitted this page.
func (c *PageContext) HasKey(key string) bool {
	return c.keys[strings.ToLower(strings.TrimSpace(key))]
}

// HasOverlappingKey reports whether any emitted key contains the given
// word. Used to suppress dictionary labels that would shadow a key a
// higher-priority strategy already produced (e.g. "Surname" after
// "Surname:" matched as a colon label).
func (c *PageContext) HasOverlappingKey(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return false
	}
	for _, k := range c.keyList {
		if strings.Contains(k, w) {
			return true
		}
	}
	return false
}
