package engine

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/formvane/formvane/internal/geom"
)

const (
	// defaultPageHeight is US Letter, used when no MediaBox is found.
	defaultPageHeight = 792.0
	// defaultGlyphHeight approximates text height when the font size is
	// not recorded in the content stream.
	defaultGlyphHeight = 12.0
)

// FileDocument is a Document backed by a PDF file: ledongthuc/pdf
// supplies positioned text, pdfcpu supplies AcroForm widget records.
type FileDocument struct {
	file    *os.File
	reader  *pdf.Reader
	widgets map[int][]Widget
	closed  bool
}

// OpenFile opens a PDF document for extraction. Widget extraction
// failures are not fatal: a document without a readable AcroForm still
// yields its text primitives.
func OpenFile(path string) (*FileDocument, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	doc := &FileDocument{
		file:    f,
		reader:  reader,
		widgets: map[int][]Widget{},
	}

	if widgets, err := readWidgets(path); err == nil {
		for _, w := range widgets {
			doc.widgets[w.page] = append(doc.widgets[w.page], w.Widget)
		}
	}

	return doc, nil
}

// PageCount returns the number of pages in the document.
func (d *FileDocument) PageCount() int {
	if d.closed {
		return 0
	}
	return d.reader.NumPage()
}

// Page returns the n-th (zero-based) page.
func (d *FileDocument) Page(n int) (Page, error) {
	if d.closed {
		return nil, fmt.Errorf("document is closed")
	}
	if n < 0 || n >= d.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number %d (document has %d pages)", n, d.reader.NumPage())
	}

	// ledongthuc numbers pages from 1.
	page := d.reader.Page(n + 1)
	words := assembleWords(page)

	return &filePage{
		num:     n,
		words:   words,
		widgets: d.widgets[n],
	}, nil
}

// Close releases the underlying file handle. Closing an already
// released document is tolerated silently.
func (d *FileDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.file != nil {
		// The handle may already be invalidated; that is not an error
		// the caller can act on.
		_ = d.file.Close()
	}
	return nil
}

// filePage adapts one ledongthuc page to the Page interface.
type filePage struct {
	num     int
	words   []Word
	widgets []Widget
	tables  []Table
	scanned bool
}

func (p *filePage) Number() int   { return p.num }
func (p *filePage) Words() []Word { return p.words }

func (p *filePage) SearchText(pattern string) []geom.Rect {
	return searchWords(p.words, pattern)
}

// VectorShapes returns no shapes: ledongthuc/pdf exposes no line-art.
// Checkbox detection on file-backed pages relies on marker glyphs and
// widgets instead.
func (p *filePage) VectorShapes() []geom.Rect { return nil }

func (p *filePage) Tables() []Table {
	if !p.scanned {
		p.tables = detectTables(p.words)
		p.scanned = true
	}
	return p.tables
}

func (p *filePage) Widgets() []Widget { return p.widgets }

func (p *filePage) TextInRegion(r geom.Rect) string {
	return textInRegion(p.words, r)
}

// assembleWords merges the page's raw text runs into positioned words.
// Runs on one baseline separated by less than a fraction of the glyph
// size belong to the same word; anything wider starts a new one. The
// PDF's bottom-up coordinates are flipped to the core's top-left
// origin.
func assembleWords(page pdf.Page) []Word {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	pageHeight := mediaBoxHeight(page)

	runs := make([]pdf.Text, len(content.Text))
	copy(runs, content.Text)
	sort.SliceStable(runs, func(i, j int) bool {
		dy := runs[i].Y - runs[j].Y
		if dy > lineTolerance {
			return true // higher Y first: top of page in PDF coords
		}
		if dy < -lineTolerance {
			return false
		}
		return runs[i].X < runs[j].X
	})

	var words []Word
	var sb strings.Builder
	var wordRect geom.Rect

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		text := strings.TrimSpace(sb.String())
		if text != "" {
			words = append(words, Word{Text: text, Rect: wordRect})
		}
		sb.Reset()
		wordRect = geom.Rect{}
	}

	var prev *pdf.Text
	for i := range runs {
		run := runs[i]
		height := run.FontSize
		if height == 0 {
			height = defaultGlyphHeight
		}
		rect := geom.NewRect(run.X, pageHeight-(run.Y+height), run.X+run.W, pageHeight-run.Y)

		if prev != nil {
			gap := run.X - (prev.X + prev.W)
			if !sameBaseline(*prev, run) || gap > wordGapFor(height) {
				flush()
			}
		}
		if strings.TrimSpace(run.S) == "" {
			flush()
			prev = &runs[i]
			continue
		}

		sb.WriteString(run.S)
		wordRect = wordRect.Union(rect)
		prev = &runs[i]
	}
	flush()

	return words
}

func sameBaseline(a, b pdf.Text) bool {
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dy <= lineTolerance
}

// wordGapFor is the maximum intra-word gap for a glyph of the given
// height. Gaps beyond this are inter-word spacing.
func wordGapFor(height float64) float64 {
	return height * 0.25
}

// mediaBoxHeight resolves the page height from the MediaBox entry,
// walking up the page tree for inherited attributes.
func mediaBoxHeight(page pdf.Page) float64 {
	v := page.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			return mb.Index(3).Float64() - mb.Index(1).Float64()
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}
