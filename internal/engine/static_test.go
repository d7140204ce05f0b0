package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formvane/formvane/internal/geom"
)

func TestStaticDocument_PageBounds(t *testing.T) {
	doc := &StaticDocument{
		Pages: []*StaticPage{{Num: 0}, {Num: 1}},
	}

	require.Equal(t, 2, doc.PageCount())

	page, err := doc.Page(1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number())

	_, err = doc.Page(2)
	assert.Error(t, err)
	_, err = doc.Page(-1)
	assert.Error(t, err)
}

func TestStaticDocument_CloseTwice(t *testing.T) {
	doc := &StaticDocument{Pages: []*StaticPage{{Num: 0}}}

	require.NoError(t, doc.Close())
	assert.NoError(t, doc.Close(), "releasing twice must be tolerated")

	_, err := doc.Page(0)
	assert.Error(t, err, "a closed document yields no pages")
}

func TestStaticPage_Primitives(t *testing.T) {
	page := &StaticPage{
		Num: 3,
		PageWords: []Word{
			word("hello", 0, 0, 30, 10),
		},
		Shapes: []geom.Rect{{X0: 40, Y0: 0, X1: 52, Y1: 12}},
		Forms: []Widget{
			{Name: "f1", Type: WidgetText, Value: "v"},
		},
	}

	assert.Equal(t, 3, page.Number())
	assert.Len(t, page.Words(), 1)
	assert.Len(t, page.VectorShapes(), 1)
	assert.Len(t, page.Widgets(), 1)
	assert.Empty(t, page.Tables())
	assert.Equal(t, "hello", page.TextInRegion(geom.Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}))
}

func TestWordGapFor(t *testing.T) {
	assert.Equal(t, 3.0, wordGapFor(12))
	assert.Equal(t, 2.5, wordGapFor(10))
}
