package validators

import (
	"strings"
	"unicode"
)

// Words dropped from street names before comparing them.
var streetNoise = map[string]struct{}{
	"st": {}, "str": {}, "street": {},
	"ul": {}, "ulitsa": {}, "ул": {}, "улица": {},
	"blvd": {}, "bul": {}, "boulevard": {}, "бул": {}, "булевард": {},
	"ave": {}, "avenue": {}, "no": {}, "№": {},
}

// CompactKey lowercases s and drops every whitespace rune.
func CompactKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLookupName trims and collapses inner whitespace and upper-cases
// the first letter when the caller typed it in lowercase.
func NormalizeLookupName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	runes := []rune(s)
	if unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// NormalizeStreet reduces a street to its letters and digits, without the
// usual abbreviations, so "ul. Vitosha 12" and "Vitosha st. 12" match.
func NormalizeStreet(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '№'
	})

	var b strings.Builder
	for _, w := range words {
		if _, noise := streetNoise[w]; noise {
			continue
		}
		b.WriteString(w)
	}
	return b.String()
}
