// Package engine defines the document-engine boundary the extraction
// core consumes: positioned words, phrase search, vector line-art,
// table grids, and interactive widgets, all per page. Two families of
// implementations are provided: StaticDocument for in-memory pages
// (tests and embedders that already have a rendering engine) and
// FileDocument backed by ledongthuc/pdf for text plus pdfcpu for
// AcroForm widgets.
package engine

import "github.com/formvane/formvane/internal/geom"

// Word is a single positioned word on a page.
type Word struct {
	Text string
	Rect geom.Rect
}

// WidgetType classifies an interactive form widget.
type WidgetType string

const (
	WidgetText     WidgetType = "text"
	WidgetCheckbox WidgetType = "checkbox"
	WidgetRadio    WidgetType = "radio"
	WidgetCombo    WidgetType = "combo"
	WidgetList     WidgetType = "list"
	WidgetUnknown  WidgetType = "unknown"
)

// Widget is an interactive form field record. Value carries the raw
// field value; for checkbox and radio widgets "Off" means unselected.
type Widget struct {
	Name  string
	Type  WidgetType
	Value string
	Rect  geom.Rect
}

// Table is a detected table grid. The first row of Grid is treated as
// the header by consumers.
type Table interface {
	// Grid returns the cell contents as rows of columns.
	Grid() [][]string
	// CellRect returns the bounding rectangle of the given cell.
	CellRect(row, col int) geom.Rect
}

// Page exposes the per-page primitives the extraction core operates on.
// Implementations that cannot supply a primitive return an empty slice;
// the core treats absence as "not found", never as an error.
type Page interface {
	// Number returns the zero-based page index.
	Number() int
	// Words returns the page's positioned words in reading order.
	Words() []Word
	// SearchText returns the bounding rectangle of every occurrence of
	// the exact phrase on the page.
	SearchText(pattern string) []geom.Rect
	// VectorShapes returns candidate line-art rectangles (checkbox and
	// table boundaries).
	VectorShapes() []geom.Rect
	// Tables returns the detected table grids on the page.
	Tables() []Table
	// Widgets returns the interactive form widgets on the page.
	Widgets() []Widget
	// TextInRegion returns the text of all words intersecting the
	// rectangle, joined in reading order.
	TextInRegion(r geom.Rect) string
}

// Document is a scoped handle over a paginated document. Close must be
// safe to call more than once; releasing an already-invalidated handle
// is tolerated silently.
type Document interface {
	PageCount() int
	Page(n int) (Page, error)
	Close() error
}

// GridTable is the concrete Table used by the built-in adapters.
type GridTable struct {
	Cells [][]string
	Rects [][]geom.Rect
}

// Grid returns the cell contents.
func (t *GridTable) Grid() [][]string { return t.Cells }

// CellRect returns the bounding rectangle for a cell, or the zero
// rectangle when the grid carries no geometry for it.
func (t *GridTable) CellRect(row, col int) geom.Rect {
	if row < 0 || row >= len(t.Rects) {
		return geom.Rect{}
	}
	if col < 0 || col >= len(t.Rects[row]) {
		return geom.Rect{}
	}
	return t.Rects[row][col]
}
