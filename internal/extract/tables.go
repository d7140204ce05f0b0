package extract

import (
	"fmt"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

// NormalizeTable flattens a detected table into per-cell records. The
// first row is the header; every later row becomes one record per
// non-empty cell, keyed by table ordinal, row ordinal, and the cell's
// column header. Header cells and cell values pass through the usual
// cleaning, and rows beyond the header width are truncated to it.
func NormalizeTable(table engine.Table, tableNum, pageNum int) []Record {
	grid := table.Grid()
	if len(grid) < 2 {
		return nil
	}

	headers := make([]string, len(grid[0]))
	for col, cell := range grid[0] {
		headers[col] = CleanKey(cell)
	}

	var records []Record
	for row := 1; row < len(grid); row++ {
		for col, cell := range grid[row] {
			if col >= len(headers) || headers[col] == "" {
				continue
			}
			value := CleanValue(cell)
			if value == "" || isArtifactOnly(value) {
				continue
			}
			records = append(records, Record{
				Key:    fmt.Sprintf("Table %d - Row %d - %s", tableNum, row, headers[col]),
				Value:  value,
				Page:   pageNum,
				Rect:   table.CellRect(row, col),
				Method: MethodTable,
			})
		}
	}
	return records
}

// tableBounds returns the union of a table's cell rectangles. Words
// inside it are consumed so the label strategies never re-read table
// content as free-form labels.
func tableBounds(table engine.Table) geom.Rect {
	var bounds geom.Rect
	grid := table.Grid()
	for row := range grid {
		for col := range grid[row] {
			bounds = bounds.Union(table.CellRect(row, col))
		}
	}
	return bounds
}
