package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formvane/formvane/internal/geom"
)

func TestFlipRect(t *testing.T) {
	// An annotation near the top of a 792pt page has large PDF Y values;
	// flipped, it must land near the small Y values the text layer uses.
	raw := geom.Rect{X0: 100, Y0: 680, X1: 120, Y1: 700}
	got := flipRect(raw, 792)
	assert.Equal(t, geom.Rect{X0: 100, Y0: 92, X1: 120, Y1: 112}, got)

	// A label 100pt from the top of the page must intersect the flipped
	// widget once expanded by the checkbox search radius.
	label := geom.Rect{X0: 40, Y0: 95, X1: 90, Y1: 107}
	assert.True(t, got.Intersects(label.Expand(50)))
}

func TestFlipRect_ZeroStaysZero(t *testing.T) {
	assert.True(t, flipRect(geom.Rect{}, 792).IsZero())
}
