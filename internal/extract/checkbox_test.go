package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

func newTestResolver() *CheckboxResolver {
	return NewCheckboxResolver(DefaultOptions())
}

func TestResolve_WidgetOverridesMarker(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	page := &engine.StaticPage{
		Num: 0,
		PageWords: []engine.Word{
			tw("Male", 0, 0, 30, 10),
			tw("X", 35, 0, 43, 10), // stray glyph the widget must outrank
		},
		Forms: []engine.Widget{
			{Name: "gender_male", Type: engine.WidgetCheckbox, Value: "Off",
				Rect: geom.Rect{X0: 35, Y0: 0, X1: 45, Y1: 10}},
		},
	}

	state, rect := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateUnchecked, state)
	assert.Equal(t, page.Forms[0].Rect, rect)
}

func TestResolve_WidgetChecked(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	page := &engine.StaticPage{
		Forms: []engine.Widget{
			{Name: "married", Type: engine.WidgetCheckbox, Value: "Yes",
				Rect: geom.Rect{X0: 35, Y0: 0, X1: 45, Y1: 10}},
		},
	}

	state, _ := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateChecked, state)
}

func TestResolve_MarkerGlyphMeansChecked(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	page := &engine.StaticPage{
		PageWords: []engine.Word{
			tw("Single", 0, 0, 30, 10),
			tw("✓", 36, 0, 44, 10),
		},
	}

	state, rect := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateChecked, state)
	assert.Equal(t, geom.Rect{X0: 36, Y0: 0, X1: 44, Y1: 10}, rect)
}

func TestResolve_VectorShapeUnmarked(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	page := &engine.StaticPage{
		Shapes: []geom.Rect{
			{X0: 35, Y0: 0, X1: 47, Y1: 12},
		},
	}

	state, rect := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateUnchecked, state)
	assert.Equal(t, page.Shapes[0], rect)
}

func TestResolve_VectorShapeWithGlyphInside(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	box := geom.Rect{X0: 35, Y0: 0, X1: 47, Y1: 12}
	page := &engine.StaticPage{
		PageWords: []engine.Word{
			// The glyph sits inside the box but outside the marker set,
			// so only the interior text scan can see it.
			tw("xx", 37, 1, 45, 11),
		},
		Shapes: []geom.Rect{box},
	}

	state, rect := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateChecked, state)
	assert.Equal(t, box, rect)
}

func TestResolve_ShapeSizeFilter(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	page := &engine.StaticPage{
		Shapes: []geom.Rect{
			{X0: 32, Y0: 0, X1: 34, Y1: 2},    // too small, pen stroke
			{X0: 0, Y0: 0, X1: 400, Y1: 200},  // too large, table border
		},
	}

	state, _ := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateNotFound, state)
}

func TestResolve_NearestShapeWins(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	near := geom.Rect{X0: 33, Y0: 0, X1: 45, Y1: 12}
	far := geom.Rect{X0: 60, Y0: 0, X1: 72, Y1: 12}
	page := &engine.StaticPage{
		Shapes: []geom.Rect{far, near},
	}

	_, rect := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, near, rect)
}

func TestResolve_NotFoundWithoutSignals(t *testing.T) {
	label := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 10}
	page := &engine.StaticPage{}

	state, rect := newTestResolver().Resolve(page, label, nil)
	assert.Equal(t, StateNotFound, state)
	assert.True(t, rect.IsZero())
}

func TestResolveGroup_SharedClaimSet(t *testing.T) {
	// One marker between two options must satisfy only the closer one.
	page := &engine.StaticPage{
		PageWords: []engine.Word{
			tw("Male", 0, 0, 28, 10),
			tw("X", 32, 0, 40, 10),
			tw("Female", 60, 0, 100, 10),
		},
	}

	resolved := newTestResolver().ResolveGroup(page, []string{"Male", "Female"})
	require.Len(t, resolved, 1, "the single marker cannot satisfy both options")
	assert.Equal(t, "Male", resolved[0].Option)
	assert.Equal(t, StateChecked, resolved[0].State)
	assert.Equal(t, geom.Rect{X0: 0, Y0: 0, X1: 40, Y1: 10}, resolved[0].Rect,
		"rect spans the label and its mark")
}

func TestIsMarkerGlyph(t *testing.T) {
	for _, g := range []string{"x", "X", "✓", "✔", "☑", "√", "■", "●"} {
		assert.True(t, isMarkerGlyph(g), "glyph %q", g)
	}
	assert.False(t, isMarkerGlyph("xx"))
	assert.False(t, isMarkerGlyph("Yes"))
	assert.False(t, isMarkerGlyph(""))
}
