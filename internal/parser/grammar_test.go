package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrammar() *Grammar {
	return NewGrammar([]string{
		"UNIVERSITY",
		"SACRAMENTO",
		"ASHBY",
		"MARTIN LUTHER KING JUNIOR",
	})
}

func TestGrammarParseAddress(t *testing.T) {
	g := testGrammar()

	tests := []struct {
		name       string
		window     string
		street     string
		streetType string
		numbers    int
	}{
		{name: "single number", window: "five university", street: "UNIVERSITY", numbers: 1},
		{name: "number run", window: "twenty twenty university", street: "UNIVERSITY", numbers: 2},
		{name: "with street type", window: "twenty twenty university avenue", street: "UNIVERSITY", streetType: "avenue", numbers: 2},
		{name: "multi word street", window: "nine hundred martin luther king junior", street: "MARTIN LUTHER KING JUNIOR", numbers: 2},
		{name: "filler numbers", window: "to to to ashby", street: "ASHBY", numbers: 3},
		{name: "mixed case", window: "Five UNIVERSITY", street: "UNIVERSITY", numbers: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trees := g.Parse(strings.Fields(tt.window))
			require.NotEmpty(t, trees)

			tree := trees[0]
			assert.Equal(t, KindAddress, tree.Kind)
			assert.Equal(t, tt.street, tree.Street)
			assert.Equal(t, tt.streetType, tree.StreetType)
			assert.Len(t, tree.Numbers, tt.numbers)
		})
	}
}

func TestGrammarParseCrossing(t *testing.T) {
	g := testGrammar()

	tests := []struct {
		name   string
		window string
		first  string
		second string
	}{
		{name: "and", window: "university and sacramento", first: "UNIVERSITY", second: "SACRAMENTO"},
		{name: "at", window: "ashby at sacramento", first: "ASHBY", second: "SACRAMENTO"},
		{name: "multi word left", window: "martin luther king junior and ashby", first: "MARTIN LUTHER KING JUNIOR", second: "ASHBY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trees := g.Parse(strings.Fields(tt.window))
			require.NotEmpty(t, trees)

			tree := trees[0]
			assert.Equal(t, KindCrossing, tree.Kind)
			assert.Equal(t, tt.first, tree.Cross[0])
			assert.Equal(t, tt.second, tree.Cross[1])
		})
	}
}

func TestGrammarParseRejects(t *testing.T) {
	g := testGrammar()

	windows := []string{
		"university",                       // street alone
		"twenty twenty",                    // number alone
		"twenty twenty broadway",           // unknown street
		"university and",                   // dangling conjunction
		"university and twenty",            // conjunction to a number
		"hello twenty twenty university",   // leading junk
		"twenty twenty university hello",   // trailing junk
		"twenty twenty university street x", // junk after type
		"",
	}

	for _, window := range windows {
		trees := g.Parse(strings.Fields(window))
		assert.Empty(t, trees, "window %q should not parse", window)
	}
}

func TestGrammarLongestStreetWins(t *testing.T) {
	g := NewGrammar([]string{"KING", "MARTIN LUTHER KING"})
	trees := g.Parse(strings.Fields("five martin luther king"))
	require.NotEmpty(t, trees)
	assert.Equal(t, "MARTIN LUTHER KING", trees[0].Street)
}
