package template

import (
	"regexp"
	"strings"
	"unicode"
)

// FieldType constrains what token shapes a template field accepts. A
// candidate value failing its field's type check is rejected, letting
// the parser fall through to the next line.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeName        FieldType = "name"
	TypeDate        FieldType = "date"
	TypeID          FieldType = "id"
	TypeEmail       FieldType = "email"
	TypePhone       FieldType = "phone"
	TypeMoney       FieldType = "money"
	TypeEducation   FieldType = "education"
	TypeNationality FieldType = "nationality"
	TypeCount       FieldType = "count"
)

var (
	dateRE  = regexp.MustCompile(`\d{1,4}[/\-.]\d{1,2}[/\-.]\d{1,4}`)
	idRE    = regexp.MustCompile(`^[A-Za-z0-9\-/]{4,}$`)
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRE = regexp.MustCompile(`^[+()\d][\d\s()\-]{5,}$`)
	moneyRE = regexp.MustCompile(`^[A-Z$€£]{0,3}\s?[\d,]+(\.\d{1,2})?$`)
	countRE = regexp.MustCompile(`^\d{1,3}$`)
)

var educationLevels = []string{
	"primary", "secondary", "tertiary", "diploma", "degree",
	"certificate", "masters", "doctorate", "none",
}

// Accepts reports whether the value fits the field type. Unknown types
// and the plain text type accept anything non-empty.
func (t FieldType) Accepts(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	switch t {
	case TypeName, TypeNationality:
		return isAlphabetic(value)
	case TypeDate:
		return dateRE.MatchString(value)
	case TypeID:
		return idRE.MatchString(strings.ReplaceAll(value, " ", ""))
	case TypeEmail:
		return emailRE.MatchString(value)
	case TypePhone:
		return phoneRE.MatchString(value)
	case TypeMoney:
		return moneyRE.MatchString(value)
	case TypeEducation:
		lower := strings.ToLower(value)
		for _, level := range educationLevels {
			if strings.Contains(lower, level) {
				return true
			}
		}
		return false
	case TypeCount:
		return countRE.MatchString(value)
	default:
		return true
	}
}

// isAlphabetic allows letters, spaces, and the punctuation that occurs
// in real names (O'Brien, Smith-Jones, St. John).
func isAlphabetic(s string) bool {
	seenLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			seenLetter = true
		case unicode.IsSpace(r) || r == '\'' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return seenLetter
}
