package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

func newTestAssociator(known ...string) *ValueAssociator {
	return NewValueAssociator(DefaultOptions(), known)
}

func TestAssociate_SameLineValue(t *testing.T) {
	// "Surname: Smith"
	words := []engine.Word{
		tw("Surname:", 0, 0, 50, 10),
		tw("Smith", 55, 0, 85, 10),
	}
	pctx := NewPageContext()
	pctx.Consume(0) // label already claimed

	span := newTestAssociator().Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "Smith", span.Text)
	assert.True(t, pctx.Consumed(1))
}

func TestAssociate_StopsAtNextLabel(t *testing.T) {
	// "Name: John  DOB: 1990" must yield "John", not "John DOB: 1990".
	words := []engine.Word{
		tw("Name:", 0, 0, 35, 10),
		tw("John", 40, 0, 65, 10),
		tw("DOB:", 72, 0, 100, 10),
		tw("1990", 105, 0, 130, 10),
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	span := newTestAssociator().Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "John", span.Text)
	assert.False(t, pctx.Consumed(2), "the second label must stay available")
}

func TestAssociate_StopsAtWideGap(t *testing.T) {
	words := []engine.Word{
		tw("Name:", 0, 0, 35, 10),
		tw("John", 40, 0, 65, 10),
		tw("Smith", 200, 0, 230, 10), // far beyond the chain gap
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	span := newTestAssociator().Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "John", span.Text)
}

func TestAssociate_ChainsAdjacentTokens(t *testing.T) {
	words := []engine.Word{
		tw("Name:", 0, 0, 35, 10),
		tw("John", 40, 0, 65, 10),
		tw("A.", 70, 0, 80, 10),
		tw("Smith", 85, 0, 115, 10),
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	span := newTestAssociator().Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "John A. Smith", span.Text)
}

func TestAssociate_NextLineFallback(t *testing.T) {
	// Value written under the label, roughly left-aligned.
	words := []engine.Word{
		tw("Address", 0, 0, 50, 10),
		tw("12", 2, 14, 20, 24),
		tw("Main", 25, 14, 50, 24),
		tw("St", 55, 14, 68, 24),
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	span := newTestAssociator().Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "12 Main St", span.Text)
}

func TestAssociate_SameLineBeatsNextLine(t *testing.T) {
	words := []engine.Word{
		tw("Name:", 0, 0, 35, 10),
		tw("John", 40, 0, 65, 10),
		tw("Jane", 2, 16, 28, 26),
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	span := newTestAssociator().Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "John", span.Text)
}

func TestAssociate_EmptyWhenNothingQualifies(t *testing.T) {
	anchor := geom.Rect{X0: 0, Y0: 0, X1: 50, Y1: 10}
	words := []engine.Word{
		tw("Surname:", 0, 0, 50, 10),
		tw("______", 55, 0, 95, 10),  // artifact
		tw("Far", 0, 200, 30, 210),   // outside both regions
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	span := newTestAssociator().Associate(words, anchor, pctx)
	assert.Equal(t, "", span.Text)
	assert.Equal(t, anchor, span.Rect, "empty span carries the anchor as provenance")
}

func TestAssociate_SkipsMarkerGlyphs(t *testing.T) {
	words := []engine.Word{
		tw("Married", 0, 0, 45, 10),
		tw("X", 50, 0, 58, 10),
		tw("Single", 70, 0, 105, 10),
	}
	pctx := NewPageContext()
	pctx.Consume(0)

	// The marker glyph is not a value and the neighbouring option is a
	// known label, so nothing qualifies.
	span := newTestAssociator("Single").Associate(words, words[0].Rect, pctx)
	assert.Equal(t, "", span.Text)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 300.0, opts.MaxRightDistance)
	assert.Equal(t, 10.0, opts.YTolerance)
	assert.Equal(t, 40.0, opts.MaxBelowGap)
}
