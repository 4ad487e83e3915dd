package parser

import (
	"sort"
	"strings"
)

// Kind discriminates the two recognizable mention forms.
type Kind int

const (
	// KindAddress is a street number followed by a street name, with an
	// optional street type ("twenty twenty university avenue").
	KindAddress Kind = iota
	// KindCrossing is two street names joined by "and" or "at"
	// ("university and sacramento").
	KindCrossing
)

// ParseTree is one admissible reading of a word window.
type ParseTree struct {
	Kind       Kind
	Numbers    []NumberToken // address only, in spoken order
	Street     string        // address only, spoken uppercase form
	StreetType string        // address only, "" when absent
	Cross      [2]string     // crossing only, spoken uppercase forms
}

// Grammar recognizes addresses and crossings over a closed street
// vocabulary. Matching is case-insensitive and whole-window: the window must
// be exactly one address or one crossing, nothing more.
type Grammar struct {
	// streets holds each vocabulary entry as a lowercase word sequence,
	// longest entries first so "martin luther king junior" wins over a
	// hypothetical "martin" entry.
	streets [][]string
}

// NewGrammar builds a grammar over the given street names. Names are split
// on whitespace and matched word by word.
func NewGrammar(streetNames []string) *Grammar {
	streets := make([][]string, 0, len(streetNames))
	for _, name := range streetNames {
		words := strings.Fields(strings.ToLower(name))
		if len(words) == 0 {
			continue
		}
		streets = append(streets, words)
	}
	sort.SliceStable(streets, func(i, j int) bool {
		li, lj := joinedLen(streets[i]), joinedLen(streets[j])
		if li != lj {
			return li > lj
		}
		return strings.Join(streets[i], " ") < strings.Join(streets[j], " ")
	})
	return &Grammar{streets: streets}
}

func joinedLen(words []string) int {
	n := len(words) - 1
	for _, w := range words {
		n += len(w)
	}
	return n
}

// Parse returns every admissible reading of the window, crossings before
// addresses. An empty result means the window is not a recognizable mention.
func (g *Grammar) Parse(words []string) []ParseTree {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}

	var trees []ParseTree
	trees = append(trees, g.parseCrossings(lowered)...)
	trees = append(trees, g.parseAddresses(lowered)...)
	return trees
}

func (g *Grammar) parseCrossings(words []string) []ParseTree {
	var trees []ParseTree
	for _, left := range g.streets {
		k := len(left)
		if k+2 > len(words) || !wordsEqual(words[:k], left) {
			continue
		}
		if words[k] != "and" && words[k] != "at" {
			continue
		}
		rest := words[k+1:]
		for _, right := range g.streets {
			if wordsEqual(rest, right) {
				trees = append(trees, ParseTree{
					Kind:  KindCrossing,
					Cross: [2]string{spokenForm(left), spokenForm(right)},
				})
			}
		}
	}
	return trees
}

func (g *Grammar) parseAddresses(words []string) []ParseTree {
	var numbers []NumberToken
	var trees []ParseTree
	for split := 1; split < len(words); split++ {
		tok, ok := classifyNumber(words[split-1])
		if !ok {
			break
		}
		numbers = append(numbers, tok)
		rest := words[split:]
		for _, street := range g.streets {
			k := len(street)
			if k > len(rest) || !wordsEqual(rest[:k], street) {
				continue
			}
			switch {
			case k == len(rest):
				trees = append(trees, ParseTree{
					Kind:    KindAddress,
					Numbers: cloneTokens(numbers),
					Street:  spokenForm(street),
				})
			case k == len(rest)-1 && streetTypes[rest[k]]:
				trees = append(trees, ParseTree{
					Kind:       KindAddress,
					Numbers:    cloneTokens(numbers),
					Street:     spokenForm(street),
					StreetType: rest[k],
				})
			}
		}
	}
	return trees
}

func wordsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func spokenForm(words []string) string {
	return strings.ToUpper(strings.Join(words, " "))
}

func cloneTokens(tokens []NumberToken) []NumberToken {
	out := make([]NumberToken, len(tokens))
	copy(out, tokens)
	return out
}

// streetTypes is the USPS C1 street suffix vocabulary in its spoken forms.
var streetTypes = wordSet(
	"crossroads", "expressway", "extensions", "throughway", "trafficway",
	"boulevard", "crossroad", "extension", "junctions", "mountains",
	"stravenue", "underpass", "causeway", "crescent", "crossing", "junction",
	"motorway", "mountain", "overpass", "parkways", "turnpike", "villages",
	"centers", "circles", "commons", "corners", "estates", "freeway",
	"gardens", "gateway", "harbors", "heights", "highway", "islands",
	"landing", "meadows", "mission", "orchard", "parkway", "passage",
	"prairie", "springs", "squares", "station", "streets", "terrace",
	"trailer", "valleys", "viaduct", "village", "arcade", "avenue", "bluffs",
	"bottom", "branch", "bridge", "brooks", "bypass", "canyon", "center",
	"circle", "cliffs", "common", "corner", "course", "courts", "divide",
	"drives", "estate", "fields", "forest", "forges", "garden", "greens",
	"groves", "harbor", "hollow", "island", "knolls", "lights", "manors",
	"meadow", "plains", "points", "radial", "rapids", "ridges", "shoals",
	"shores", "skyway", "spring", "square", "stream", "street", "summit",
	"tunnel", "unions", "valley", "alley", "bayou", "beach", "bluff",
	"brook", "burgs", "cliff", "court", "coves", "creek", "crest", "curve",
	"drive", "falls", "ferry", "field", "flats", "fords", "forge", "forks",
	"glens", "green", "grove", "haven", "hills", "inlet", "knoll", "lakes",
	"light", "locks", "lodge", "manor", "mills", "mount", "parks", "pines",
	"place", "plain", "plaza", "point", "ports", "ranch", "rapid", "ridge",
	"river", "roads", "route", "shoal", "shore", "spurs", "trace", "track",
	"trail", "union", "views", "ville", "vista", "walks", "wells", "anex",
	"bend", "burg", "camp", "cape", "club", "cove", "dale", "fall", "flat",
	"ford", "fork", "fort", "glen", "hill", "isle", "keys", "lake", "land",
	"lane", "loaf", "lock", "loop", "mall", "mews", "mill", "neck", "oval",
	"park", "pass", "path", "pike", "pine", "port", "ramp", "rest", "road",
	"spur", "view", "walk", "wall", "ways", "well", "dam", "key", "row",
	"rue", "run", "way",
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
