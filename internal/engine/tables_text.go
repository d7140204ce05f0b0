package engine

import (
	"strings"

	"github.com/formvane/formvane/internal/geom"
)

const (
	// columnTolerance is the horizontal slack when matching a word to a
	// column seeded by an earlier row.
	columnTolerance = 18.0
	// minTableRows is the smallest run of aligned rows worth reporting
	// as a table (header plus two data rows).
	minTableRows = 3
	// minTableCols rules out label/value pairs masquerading as grids.
	minTableCols = 2
)

// detectTables derives table grids from word alignment. File-backed
// pages have no vector grid available, so columns are inferred from
// runs of consecutive rows whose words start at the same x positions.
func detectTables(words []Word) []Table {
	rows := groupRows(words)
	if len(rows) < minTableRows {
		return nil
	}

	var tables []Table
	i := 0
	for i < len(rows) {
		run := matchRun(rows, i)
		if len(run) >= minTableRows {
			if t := buildGrid(run); t != nil {
				tables = append(tables, t)
			}
			i += len(run)
			continue
		}
		i++
	}
	return tables
}

// groupRows buckets words into printed lines, top to bottom.
func groupRows(words []Word) [][]Word {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sortReadingOrder(sorted)

	var rows [][]Word
	var current []Word
	for _, w := range sorted {
		if len(current) > 0 {
			dy := w.Rect.Y0 - current[0].Rect.Y0
			if dy > lineTolerance {
				rows = append(rows, current)
				current = nil
			}
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	return rows
}

// matchRun returns the longest run of rows starting at index seed whose
// words align with the seed row's column positions.
func matchRun(rows [][]Word, seed int) [][]Word {
	cols := columnStarts(rows[seed])
	if len(cols) < minTableCols {
		return nil
	}

	run := [][]Word{rows[seed]}
	for i := seed + 1; i < len(rows); i++ {
		if !rowMatches(rows[i], cols) {
			break
		}
		run = append(run, rows[i])
	}
	return run
}

func columnStarts(row []Word) []float64 {
	starts := make([]float64, 0, len(row))
	for _, w := range row {
		starts = append(starts, w.Rect.X0)
	}
	return starts
}

// rowMatches reports whether every word in the row snaps to one of the
// column starts, and at least two columns are occupied.
func rowMatches(row []Word, cols []float64) bool {
	if len(row) < minTableCols || len(row) > len(cols) {
		return false
	}
	occupied := 0
	for _, w := range row {
		if nearestColumn(w.Rect.X0, cols) < 0 {
			return false
		}
		occupied++
	}
	return occupied >= minTableCols
}

func nearestColumn(x float64, cols []float64) int {
	best := -1
	bestDist := columnTolerance
	for i, c := range cols {
		d := x - c
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// buildGrid assembles the aligned rows into a GridTable, joining words
// that snap to the same column.
func buildGrid(run [][]Word) *GridTable {
	cols := columnStarts(run[0])

	grid := &GridTable{
		Cells: make([][]string, len(run)),
		Rects: make([][]geom.Rect, len(run)),
	}
	for r, row := range run {
		texts := make([]string, len(cols))
		rects := make([]geom.Rect, len(cols))
		for _, w := range row {
			c := nearestColumn(w.Rect.X0, cols)
			if c < 0 {
				continue
			}
			if texts[c] != "" {
				texts[c] += " "
			}
			texts[c] += w.Text
			rects[c] = rects[c].Union(w.Rect)
		}
		grid.Cells[r] = texts
		grid.Rects[r] = rects
	}

	// A grid whose header row is empty is noise.
	header := strings.TrimSpace(strings.Join(grid.Cells[0], ""))
	if header == "" {
		return nil
	}
	return grid
}
