package parser

// TokenClass classifies a spoken number word by how it combines with its
// neighbors.
type TokenClass int

const (
	// ClassDigit covers "one" through "nine".
	ClassDigit TokenClass = iota
	// ClassTeen covers stand-alone values: "zero" and "ten" through
	// "nineteen".
	ClassTeen
	// ClassTensPrefix covers "twenty" through "ninety", which may absorb a
	// following digit ("twenty two" -> 22).
	ClassTensPrefix
	// ClassHundredSuffix is "hundred", which multiplies what precedes it.
	ClassHundredSuffix
	// ClassFiller covers words that sound like digits but are usually
	// disfluencies: "oh", "to", "for", "or".
	ClassFiller
)

// NumberToken is a classified spoken number word. Immutable once classified.
type NumberToken struct {
	Text  string
	Class TokenClass
	Value int
}

var numberWords = map[string]NumberToken{
	"oh":  {Class: ClassFiller, Value: 0},
	"to":  {Class: ClassFiller, Value: 2},
	"for": {Class: ClassFiller, Value: 4},
	"or":  {Class: ClassFiller, Value: 2},

	"one":   {Class: ClassDigit, Value: 1},
	"two":   {Class: ClassDigit, Value: 2},
	"three": {Class: ClassDigit, Value: 3},
	"four":  {Class: ClassDigit, Value: 4},
	"five":  {Class: ClassDigit, Value: 5},
	"six":   {Class: ClassDigit, Value: 6},
	"seven": {Class: ClassDigit, Value: 7},
	"eight": {Class: ClassDigit, Value: 8},
	"nine":  {Class: ClassDigit, Value: 9},

	"zero":      {Class: ClassTeen, Value: 0},
	"ten":       {Class: ClassTeen, Value: 10},
	"eleven":    {Class: ClassTeen, Value: 11},
	"twelve":    {Class: ClassTeen, Value: 12},
	"thirteen":  {Class: ClassTeen, Value: 13},
	"fourteen":  {Class: ClassTeen, Value: 14},
	"fifteen":   {Class: ClassTeen, Value: 15},
	"sixteen":   {Class: ClassTeen, Value: 16},
	"seventeen": {Class: ClassTeen, Value: 17},
	"eighteen":  {Class: ClassTeen, Value: 18},
	"nineteen":  {Class: ClassTeen, Value: 19},

	"twenty":  {Class: ClassTensPrefix, Value: 20},
	"thirty":  {Class: ClassTensPrefix, Value: 30},
	"forty":   {Class: ClassTensPrefix, Value: 40},
	"fourty":  {Class: ClassTensPrefix, Value: 40},
	"fifty":   {Class: ClassTensPrefix, Value: 50},
	"sixty":   {Class: ClassTensPrefix, Value: 60},
	"seventy": {Class: ClassTensPrefix, Value: 70},
	"eighty":  {Class: ClassTensPrefix, Value: 80},
	"ninety":  {Class: ClassTensPrefix, Value: 90},

	"hundred": {Class: ClassHundredSuffix, Value: 100},
}

// classifyNumber returns the token for a spoken number word, or false when
// the word is not part of the number vocabulary.
func classifyNumber(word string) (NumberToken, bool) {
	tok, ok := numberWords[word]
	if !ok {
		return NumberToken{}, false
	}
	tok.Text = word
	return tok, true
}
