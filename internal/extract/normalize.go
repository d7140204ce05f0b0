package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Form-fill artifacts: printed underscore or dot runs where the answer
// is meant to be written.
var (
	keyArtifactRE   = regexp.MustCompile(`[_.]{3,}`)
	valueArtifactRE = regexp.MustCompile(`[_.]{2,}`)
	valueNoiseRE    = regexp.MustCompile(`[()\[\]{}|:]`)
	whitespaceRE    = regexp.MustCompile(`\s+`)
)

// CleanKey normalizes raw label text into a key: strips underscore/dot
// runs, trims trailing colons, and collapses whitespace. Keys declared
// in a template are used verbatim and never pass through here.
func CleanKey(text string) string {
	if text == "" {
		return ""
	}
	cleaned := keyArtifactRE.ReplaceAllString(text, "")
	cleaned = whitespaceRE.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, ":")
	return strings.TrimSpace(cleaned)
}

// TitleKey cleans a dynamically detected label and title-cases it for
// display, so "DATE of birth:" and "date of birth" collapse to the
// same key.
func TitleKey(text string) string {
	cleaned := CleanKey(strings.ReplaceAll(text, "_", " "))
	return titleCase(cleaned)
}

// CleanValue normalizes an extracted value: underscore/dot runs become
// a single space, bracket/pipe/colon noise is stripped, and whitespace
// is collapsed. Legitimate short content survives: a single-letter
// answer such as a middle initial or a grade is kept as-is.
func CleanValue(value string) string {
	if value == "" {
		return ""
	}
	cleaned := valueArtifactRE.ReplaceAllString(value, " ")
	cleaned = valueNoiseRE.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRE.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// titleCase upper-cases the first letter of each word and lower-cases
// the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		for j, r := range runes {
			if j == 0 {
				runes[j] = unicode.ToUpper(r)
			} else {
				runes[j] = unicode.ToLower(r)
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// isArtifactOnly reports whether the text is purely a form-fill
// artifact (underscores, dots, dashes, whitespace).
func isArtifactOnly(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	for _, r := range text {
		switch {
		case r == '_' || r == '.' || r == '-':
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}

// isNumeric reports whether the string consists solely of digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
