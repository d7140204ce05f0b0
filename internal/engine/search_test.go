package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formvane/formvane/internal/geom"
)

func word(text string, x0, y0, x1, y1 float64) Word {
	return Word{Text: text, Rect: geom.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func TestSearchWords_SingleWord(t *testing.T) {
	words := []Word{
		word("Surname", 10, 10, 60, 20),
		word("Surname:", 10, 40, 64, 50),
		word("Forename", 10, 70, 68, 80),
	}

	rects := searchWords(words, "Surname")
	require.Len(t, rects, 2, "substring match includes the colon variant")
	assert.Equal(t, words[0].Rect, rects[0])
	assert.Equal(t, words[1].Rect, rects[1])
}

func TestSearchWords_MultiWordPhrase(t *testing.T) {
	words := []Word{
		word("Date", 10, 10, 36, 20),
		word("of", 40, 10, 52, 20),
		word("Birth", 56, 10, 85, 20),
	}

	rects := searchWords(words, "Date of Birth")
	require.Len(t, rects, 1)
	assert.Equal(t, geom.Rect{X0: 10, Y0: 10, X1: 85, Y1: 20}, rects[0])
}

func TestSearchWords_PhraseBrokenAcrossLines(t *testing.T) {
	words := []Word{
		word("Date", 10, 10, 36, 20),
		word("of", 40, 10, 52, 20),
		word("Birth", 10, 40, 39, 50),
	}

	assert.Empty(t, searchWords(words, "Date of Birth"))
}

func TestSearchWords_EmptyPattern(t *testing.T) {
	words := []Word{word("a", 0, 0, 5, 10)}
	assert.Empty(t, searchWords(words, ""))
	assert.Empty(t, searchWords(words, "   "))
}

func TestTextInRegion_ReadingOrder(t *testing.T) {
	words := []Word{
		word("Smith", 40, 10, 70, 20),
		word("John", 10, 10, 36, 20),
		word("below", 10, 40, 45, 50),
		word("outside", 300, 300, 340, 310),
	}

	got := textInRegion(words, geom.Rect{X0: 0, Y0: 0, X1: 100, Y1: 60})
	assert.Equal(t, "John Smith below", got)
}

func TestTextInRegion_NoHits(t *testing.T) {
	words := []Word{word("far", 500, 500, 520, 510)}
	assert.Equal(t, "", textInRegion(words, geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}))
}
