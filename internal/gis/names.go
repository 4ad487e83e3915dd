package gis

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.AmericanEnglish)

var ordinalUnits = [...]string{
	"", "FIRST", "SECOND", "THIRD", "FOURTH", "FIFTH", "SIXTH", "SEVENTH",
	"EIGHTH", "NINTH", "TENTH", "ELEVENTH", "TWELFTH", "THIRTEENTH",
	"FOURTEENTH", "FIFTEENTH", "SIXTEENTH", "SEVENTEENTH", "EIGHTEENTH",
	"NINETEENTH",
}

var ordinalTens = [...]string{
	"", "", "TWENTIETH", "THIRTIETH", "FORTIETH", "FIFTIETH", "SIXTIETH",
	"SEVENTIETH", "EIGHTIETH", "NINETIETH",
}

var cardinalTens = [...]string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY",
	"EIGHTY", "NINETY",
}

var cardinalUnits = [...]string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
}

// SpokenStreetName converts a GIS street name to the form a speech-to-text
// engine would produce: hyphens and slashes become spaces, ordinal tokens are
// expanded ("51st" -> "FIFTY FIRST", "9th" -> "NINTH"), and the result is
// uppercased.
func SpokenStreetName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "/", " ")

	words := strings.Fields(name)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if spoken, ok := spokenOrdinal(w); ok {
			out = append(out, spoken)
			continue
		}
		out = append(out, upperCaser.String(w))
	}
	return strings.Join(out, " ")
}

// spokenOrdinal expands tokens like "51st", "2nd", "103rd" into spoken
// ordinal words. Returns false for anything that is not digits followed by
// an ordinal suffix.
func spokenOrdinal(token string) (string, bool) {
	if len(token) < 3 {
		return "", false
	}

	suffix := strings.ToLower(token[len(token)-2:])
	switch suffix {
	case "st", "nd", "rd", "th":
	default:
		return "", false
	}

	n, err := strconv.Atoi(token[:len(token)-2])
	if err != nil || n <= 0 || n >= 1000 {
		return "", false
	}
	return ordinalWords(n), true
}

// ordinalWords spells out an ordinal for 1..999.
func ordinalWords(n int) string {
	var parts []string

	if n >= 100 {
		parts = append(parts, cardinalUnits[n/100], "HUNDRED")
		n %= 100
		if n == 0 {
			// "300th" -> "THREE HUNDREDTH"
			parts[len(parts)-1] = "HUNDREDTH"
			return strings.Join(parts, " ")
		}
	}

	switch {
	case n < 20:
		parts = append(parts, ordinalUnits[n])
	case n%10 == 0:
		parts = append(parts, ordinalTens[n/10])
	default:
		parts = append(parts, cardinalTens[n/10], ordinalUnits[n%10])
	}
	return strings.Join(parts, " ")
}
