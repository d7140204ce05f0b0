package engine

import (
	"sort"
	"strings"

	"github.com/formvane/formvane/internal/geom"
)

// lineTolerance is the vertical slack when deciding that two words sit
// on the same printed line despite baseline jitter.
const lineTolerance = 3.0

// searchWords finds every occurrence of an exact phrase within a word
// list and returns the union rectangle of the words it spans. The
// phrase may cover one word, several consecutive words on a line, or a
// prefix/suffix inside a single word.
func searchWords(words []Word, pattern string) []geom.Rect {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	var found []geom.Rect
	parts := strings.Fields(pattern)

	for i := range words {
		if len(parts) == 1 {
			if strings.Contains(words[i].Text, pattern) {
				found = append(found, words[i].Rect)
			}
			continue
		}

		// Multi-word phrase: match consecutive words on the same line.
		if words[i].Text != parts[0] {
			continue
		}
		rect := words[i].Rect
		matched := true
		prev := words[i]
		j := i
		for _, part := range parts[1:] {
			j++
			if j >= len(words) || words[j].Text != part || !sameLine(prev, words[j]) {
				matched = false
				break
			}
			rect = rect.Union(words[j].Rect)
			prev = words[j]
		}
		if matched {
			found = append(found, rect)
		}
	}

	return found
}

func sameLine(a, b Word) bool {
	diff := a.Rect.Y0 - b.Rect.Y0
	if diff < 0 {
		diff = -diff
	}
	return diff <= lineTolerance
}

// textInRegion joins the text of all words intersecting the rectangle,
// top to bottom then left to right.
func textInRegion(words []Word, r geom.Rect) string {
	var hits []Word
	for _, w := range words {
		if w.Rect.Intersects(r) {
			hits = append(hits, w)
		}
	}
	sortReadingOrder(hits)

	texts := make([]string, 0, len(hits))
	for _, w := range hits {
		texts = append(texts, w.Text)
	}
	return strings.Join(texts, " ")
}

// sortReadingOrder orders words top to bottom with a small tolerance,
// left to right within a line.
func sortReadingOrder(words []Word) {
	sort.SliceStable(words, func(i, j int) bool {
		dy := words[i].Rect.Y0 - words[j].Rect.Y0
		if dy < -lineTolerance {
			return true
		}
		if dy > lineTolerance {
			return false
		}
		return words[i].Rect.X0 < words[j].Rect.X0
	})
}
