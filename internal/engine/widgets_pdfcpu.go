package engine

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formvane/formvane/internal/geom"
)

// pageWidget pairs a widget record with the page it was located on.
type pageWidget struct {
	Widget
	page int
}

// readWidgets extracts the document's AcroForm field records with
// pdfcpu. Fields that fail to resolve are skipped; a document without
// an AcroForm yields an empty slice.
func readWidgets(path string) ([]pageWidget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return nil, err
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	// Word rectangles come out of the text layer flipped to a top-left
	// origin; widget rectangles must land in the same space.
	pageHeight := defaultPageHeight
	if dims, err := ctx.PageDims(); err == nil && len(dims) > 0 {
		pageHeight = dims[0].Height
	}

	var widgets []pageWidget
	for _, fieldRef := range fieldsArray {
		w, ok := resolveField(ctx, fieldRef, pageHeight)
		if ok {
			widgets = append(widgets, w)
		}
	}
	return widgets, nil
}

// resolveField converts one AcroForm field dictionary into a widget
// record with its rectangle flipped into the top-left origin space.
func resolveField(ctx *model.Context, fieldObj types.Object, pageHeight float64) (pageWidget, bool) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return pageWidget{}, false
	}

	w := pageWidget{}

	if nameObj, found := fieldDict.Find("T"); found {
		if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			w.Name = name
		}
	}
	if w.Name == "" {
		return pageWidget{}, false
	}

	w.Type = resolveFieldType(ctx, fieldDict)

	if valueObj, found := fieldDict.Find("V"); found {
		w.Value = resolveFieldValue(ctx, valueObj, w.Type)
	}
	if w.Value == "" && (w.Type == WidgetCheckbox || w.Type == WidgetRadio) {
		w.Value = "Off"
	}

	w.Rect = flipRect(resolveFieldRect(ctx, fieldDict), pageHeight)

	// Widget-to-page mapping is not exposed through the field tree;
	// fields without a resolvable page land on the first page, where
	// form fields overwhelmingly live.
	w.page = 0

	return w, true
}

// resolveFieldType maps the FT entry (inherited through Parent when
// absent) to a widget type.
func resolveFieldType(ctx *model.Context, fieldDict types.Dict) WidgetType {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return resolveFieldType(ctx, parentDict)
			}
		}
		return WidgetUnknown
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return WidgetUnknown
	}

	switch ftName {
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & (1 << 15)) != 0 { // Bit 16: Radio
					return WidgetRadio
				}
				if (*flags & (1 << 16)) != 0 { // Bit 17: Pushbutton
					return WidgetUnknown
				}
			}
		}
		return WidgetCheckbox
	case "Tx":
		return WidgetText
	case "Ch":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & (1 << 17)) != 0 { // Bit 18: Combo
					return WidgetCombo
				}
			}
		}
		return WidgetList
	default:
		return WidgetUnknown
	}
}

// resolveFieldValue extracts the V entry as a string. Checkbox and
// radio values are PDF names ("Off", "Yes", an option name); text and
// choice values are string literals.
func resolveFieldValue(ctx *model.Context, valueObj types.Object, wt WidgetType) string {
	switch wt {
	case WidgetCheckbox, WidgetRadio:
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			return string(name)
		}
	default:
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			return val
		}
	}
	return ""
}

// resolveFieldRect pulls the widget rectangle from the field itself or
// its first Kid annotation.
func resolveFieldRect(ctx *model.Context, fieldDict types.Dict) geom.Rect {
	if rectObj, found := fieldDict.Find("Rect"); found {
		if r, ok := parseRect(ctx, rectObj); ok {
			return r
		}
	}
	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kidsArray, err := ctx.DereferenceArray(kidsObj); err == nil && len(kidsArray) > 0 {
			if widgetDict, err := ctx.DereferenceDict(kidsArray[0]); err == nil && widgetDict != nil {
				if rectObj, found := widgetDict.Find("Rect"); found {
					if r, ok := parseRect(ctx, rectObj); ok {
						return r
					}
				}
			}
		}
	}
	return geom.Rect{}
}

func parseRect(ctx *model.Context, rectObj types.Object) (geom.Rect, bool) {
	rectArray, err := ctx.DereferenceArray(rectObj)
	if err != nil || len(rectArray) != 4 {
		return geom.Rect{}, false
	}
	coords := make([]float64, 4)
	for i, coord := range rectArray {
		if f, err := ctx.DereferenceNumber(coord); err == nil {
			coords[i] = f
		}
	}
	return geom.NewRect(coords[0], coords[1], coords[2], coords[3]), true
}

// flipRect maps a PDF bottom-up rectangle onto the top-left origin the
// rest of the engine uses. The zero rectangle stays zero so a missing
// Rect entry keeps its meaning.
func flipRect(r geom.Rect, pageHeight float64) geom.Rect {
	if r.IsZero() {
		return r
	}
	return geom.Rect{X0: r.X0, Y0: pageHeight - r.Y1, X1: r.X1, Y1: pageHeight - r.Y0}
}
