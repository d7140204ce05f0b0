package engine

import (
	"fmt"

	"github.com/formvane/formvane/internal/geom"
)

// StaticPage is an in-memory Page. It backs tests and callers that
// obtain primitives from their own rendering engine.
type StaticPage struct {
	Num        int
	PageWords  []Word
	Shapes     []geom.Rect
	PageTables []Table
	Forms      []Widget
}

// Number returns the zero-based page index.
func (p *StaticPage) Number() int { return p.Num }

// Words returns the page's words in the order they were supplied.
func (p *StaticPage) Words() []Word { return p.PageWords }

// SearchText returns the rectangle of every occurrence of the phrase.
func (p *StaticPage) SearchText(pattern string) []geom.Rect {
	return searchWords(p.PageWords, pattern)
}

// VectorShapes returns the candidate line-art rectangles.
func (p *StaticPage) VectorShapes() []geom.Rect { return p.Shapes }

// Tables returns the supplied table grids.
func (p *StaticPage) Tables() []Table { return p.PageTables }

// Widgets returns the supplied widget records.
func (p *StaticPage) Widgets() []Widget { return p.Forms }

// TextInRegion joins the text of words intersecting the rectangle.
func (p *StaticPage) TextInRegion(r geom.Rect) string {
	return textInRegion(p.PageWords, r)
}

// StaticDocument is an in-memory Document over StaticPages.
type StaticDocument struct {
	Pages  []*StaticPage
	closed bool
}

// PageCount returns the number of pages.
func (d *StaticDocument) PageCount() int { return len(d.Pages) }

// Page returns the n-th (zero-based) page.
func (d *StaticDocument) Page(n int) (Page, error) {
	if d.closed {
		return nil, fmt.Errorf("document is closed")
	}
	if n < 0 || n >= len(d.Pages) {
		return nil, fmt.Errorf("invalid page number %d (document has %d pages)", n, len(d.Pages))
	}
	return d.Pages[n], nil
}

// Close marks the document released. Releasing twice is tolerated.
func (d *StaticDocument) Close() error {
	d.closed = true
	return nil
}
