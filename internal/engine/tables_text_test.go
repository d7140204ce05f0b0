package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formvane/formvane/internal/geom"
)

// alignedRows builds rows of words whose columns start at the given x
// positions, one row per y.
func alignedRows(cols []float64, rows [][]string) []Word {
	var words []Word
	for r, row := range rows {
		y := float64(r) * 20
		for c, text := range row {
			if text == "" {
				continue
			}
			x := cols[c]
			words = append(words, word(text, x, y, x+30, y+10))
		}
	}
	return words
}

func TestDetectTables_AlignedGrid(t *testing.T) {
	words := alignedRows(
		[]float64{10, 100, 200},
		[][]string{
			{"Name", "Amount", "Date"},
			{"Rent", "500", "01/01"},
			{"Fuel", "80", "02/01"},
		},
	)

	tables := detectTables(words)
	require.Len(t, tables, 1)

	grid := tables[0].Grid()
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Name", "Amount", "Date"}, grid[0])
	assert.Equal(t, []string{"Rent", "500", "01/01"}, grid[1])
	assert.Equal(t, []string{"Fuel", "80", "02/01"}, grid[2])
}

func TestDetectTables_TooFewRows(t *testing.T) {
	words := alignedRows(
		[]float64{10, 100},
		[][]string{
			{"Name", "Amount"},
			{"Rent", "500"},
		},
	)

	assert.Empty(t, detectTables(words))
}

func TestDetectTables_SingleColumnIgnored(t *testing.T) {
	words := alignedRows(
		[]float64{10},
		[][]string{{"one"}, {"two"}, {"three"}, {"four"}},
	)

	assert.Empty(t, detectTables(words))
}

func TestDetectTables_MisalignedRowsEndRun(t *testing.T) {
	words := alignedRows(
		[]float64{10, 100},
		[][]string{
			{"Name", "Amount"},
			{"Rent", "500"},
			{"Fuel", "80"},
		},
	)
	// Free-form text far from the column grid.
	words = append(words,
		word("Signature", 55, 60, 120, 70),
		word("here", 130, 60, 160, 70),
	)

	tables := detectTables(words)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Grid(), 3)
}

func TestDetectTables_ColumnJitterTolerated(t *testing.T) {
	words := []Word{
		word("Name", 10, 0, 40, 10),
		word("Amount", 100, 0, 145, 10),
		word("Rent", 14, 20, 40, 30),
		word("500", 104, 20, 125, 30),
		word("Fuel", 8, 40, 34, 50),
		word("80", 97, 40, 110, 50),
	}

	tables := detectTables(words)
	require.Len(t, tables, 1)
	assert.Equal(t, "Rent", tables[0].Grid()[1][0])
}

func TestGridTable_CellRectBounds(t *testing.T) {
	table := &GridTable{
		Cells: [][]string{{"a"}},
		Rects: [][]geom.Rect{{{X0: 1, Y0: 2, X1: 3, Y1: 4}}},
	}

	assert.Equal(t, geom.Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}, table.CellRect(0, 0))
	assert.Equal(t, geom.Rect{}, table.CellRect(5, 0))
	assert.Equal(t, geom.Rect{}, table.CellRect(0, 5))
	assert.Equal(t, geom.Rect{}, table.CellRect(-1, 0))
}
