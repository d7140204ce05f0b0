package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/geom"
)

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(DefaultOptions(), nil)
}

func recordByKey(records []Record, key string) (Record, bool) {
	for _, r := range records {
		if r.Key == key {
			return r, true
		}
	}
	return Record{}, false
}

func TestExtractPage_FilledForm(t *testing.T) {
	// A minimal filled form:
	//   Surname: Smith
	//   Date of Birth  01/02/1990
	page := &engine.StaticPage{
		Num: 0,
		PageWords: []engine.Word{
			tw("Surname:", 10, 10, 60, 20),
			tw("Smith", 66, 10, 100, 20),
			tw("Date", 10, 40, 36, 50),
			tw("of", 40, 40, 52, 50),
			tw("Birth", 56, 40, 85, 50),
			tw("01/02/1990", 95, 40, 160, 50),
		},
	}

	records := newTestOrchestrator().ExtractPage(page)

	surname, ok := recordByKey(records, "Surname")
	require.True(t, ok, "expected a Surname record")
	assert.Equal(t, "Smith", surname.Value)
	assert.Equal(t, MethodFormField, surname.Method)
	assert.Equal(t, 0, surname.Page)

	dob, ok := recordByKey(records, "Date Of Birth")
	require.True(t, ok, "expected a Date Of Birth record")
	assert.Equal(t, "01/02/1990", dob.Value)
	assert.Equal(t, MethodCompoundLabel, dob.Method)
}

func TestExtractPage_WidgetBeatsSpatial(t *testing.T) {
	// The widget claims the key first; the colon label pass must not
	// overwrite it.
	page := &engine.StaticPage{
		PageWords: []engine.Word{
			tw("Surname:", 10, 10, 60, 20),
			tw("Smyth", 66, 10, 100, 20),
		},
		Forms: []engine.Widget{
			{Name: "surname", Type: engine.WidgetText, Value: "Smith",
				Rect: geom.Rect{X0: 66, Y0: 10, X1: 160, Y1: 20}},
		},
	}

	records := newTestOrchestrator().ExtractPage(page)

	surname, ok := recordByKey(records, "Surname")
	require.True(t, ok)
	assert.Equal(t, "Smith", surname.Value)
	assert.Equal(t, MethodWidget, surname.Method)

	for _, r := range records {
		if r.Key == "Surname" && r.Method != MethodWidget {
			t.Errorf("duplicate Surname record from %s", r.Method)
		}
	}
}

func TestExtractPage_TableContentNotRelabelled(t *testing.T) {
	table := &engine.GridTable{
		Cells: [][]string{
			{"Name", "Amount"},
			{"Rent:", "500"},
		},
		Rects: [][]geom.Rect{
			{{X0: 10, Y0: 100, X1: 60, Y1: 115}, {X0: 70, Y0: 100, X1: 120, Y1: 115}},
			{{X0: 10, Y0: 120, X1: 60, Y1: 135}, {X0: 70, Y0: 120, X1: 120, Y1: 135}},
		},
	}
	page := &engine.StaticPage{
		PageWords: []engine.Word{
			tw("Name", 10, 100, 40, 115),
			tw("Amount", 70, 100, 115, 115),
			tw("Rent:", 10, 120, 40, 135),
			tw("500", 70, 120, 95, 135),
		},
		PageTables: []engine.Table{table},
	}

	records := newTestOrchestrator().ExtractPage(page)

	_, ok := recordByKey(records, "Table 1 - Row 1 - Name")
	assert.True(t, ok, "expected the table record")

	// "Rent:" sits inside the table region and must not surface again
	// as a colon label.
	_, ok = recordByKey(records, "Rent")
	assert.False(t, ok, "table cell leaked into the colon label pass")
}

func TestExtractPage_CheckedOptionRecorded(t *testing.T) {
	page := &engine.StaticPage{
		PageWords: []engine.Word{
			tw("Male", 10, 10, 38, 20),
			tw("X", 42, 10, 50, 20),
			tw("Female", 70, 10, 110, 20),
		},
	}

	records := newTestOrchestrator().ExtractPage(page)

	male, ok := recordByKey(records, "Male")
	require.True(t, ok)
	assert.Equal(t, string(StateChecked), male.Value)
	assert.Equal(t, MethodCheckboxOption, male.Method)

	_, ok = recordByKey(records, "Female")
	assert.False(t, ok, "unchecked option must not be recorded")
}

func TestExtractPage_EmptyPage(t *testing.T) {
	records := newTestOrchestrator().ExtractPage(&engine.StaticPage{})
	assert.Empty(t, records)
}

type panicStrategy struct{}

func (panicStrategy) Name() string { return "panic" }
func (panicStrategy) Extract(engine.Page, *PageContext) []Record {
	panic("boom")
}

func TestRunStrategy_PanicIsolated(t *testing.T) {
	o := newTestOrchestrator()
	page := &engine.StaticPage{}

	assert.NotPanics(t, func() {
		records := o.runStrategy(panicStrategy{}, page, NewPageContext())
		assert.Nil(t, records)
	})
}

func TestExtractDocument_SkipsBadPages(t *testing.T) {
	doc := &engine.StaticDocument{
		Pages: []*engine.StaticPage{
			{
				Num: 0,
				PageWords: []engine.Word{
					tw("Surname:", 10, 10, 60, 20),
					tw("Smith", 66, 10, 100, 20),
				},
			},
			{
				Num: 1,
				PageWords: []engine.Word{
					tw("Surname:", 10, 10, 60, 20),
					tw("Jones", 66, 10, 100, 20),
				},
			},
		},
	}

	records := newTestOrchestrator().ExtractDocument(doc)

	// Per-page deduplication permits the same key on different pages.
	var surnames []string
	for _, r := range records {
		if r.Key == "Surname" {
			surnames = append(surnames, r.Value)
		}
	}
	assert.Equal(t, []string{"Smith", "Jones"}, surnames)
}
