package parser

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/sells-group/trunk-indexer/internal/gis"
)

var maskedSpan = regexp.MustCompile(`~+`)

// Location is a geocoded address or crossing together with every transcript
// span that mentioned it. Value is the canonical form, "2020 UNIVERSITY" or
// "UNIVERSITY/SACRAMENTO".
type Location struct {
	Value     string    `json:"value"`
	Point     gis.Point `json:"point"`
	Positions [][2]int  `json:"positions"`

	base int
}

func newLocation(value string, point gis.Point, base int) *Location {
	return &Location{Value: value, Point: point, base: base}
}

// AddPosition records one more mention span. Positions stay sorted by start
// offset.
func (l *Location) AddPosition(start, end int) {
	l.Positions = append(l.Positions, [2]int{start, end})
	sort.Slice(l.Positions, func(i, j int) bool {
		return l.Positions[i][0] < l.Positions[j][0]
	})
}

// Score ranks locations within one transcript. Addresses start at 1 and
// crossings at 0, so an address beats a crossing mentioned the same number
// of times, and every extra mention adds 1.
func (l *Location) Score() int {
	return l.base + len(l.Positions)
}

// MarshalJSON includes the computed score so API consumers see the ranking
// basis.
func (l *Location) MarshalJSON() ([]byte, error) {
	type alias Location
	return json.Marshal(struct {
		*alias
		Score int `json:"score"`
	}{alias: (*alias)(l), Score: l.Score()})
}

// Replace rewrites the transcript with this location's canonical value in
// place of each mention span. Spans are masked first and substituted in one
// pass, so earlier replacements never shift the offsets of later spans.
func (l *Location) Replace(transcript string) string {
	masked := []byte(transcript)
	for _, span := range l.Positions {
		start, end := span[0], span[1]
		if start < 0 || end > len(masked) {
			continue
		}
		for i := start; i < end; i++ {
			masked[i] = '~'
		}
	}
	return maskedSpan.ReplaceAllLiteralString(string(masked), l.Value)
}
