package parser

import (
	"strconv"
	"strings"
)

// StreetNumber converts an ordered run of spoken number words into the street
// number they spell. Dispatch audio rarely carries full place values, so each
// token contributes a decimal chunk and the chunks concatenate: "twenty nine
// sixteen" is 2916, "one two three" is 123. "hundred" is the exception and
// multiplies what precedes it, so "fifteen hundred" is 1500 and "twenty two
// hundred" is 2200.
//
// Returns false when the run carries no real evidence of a number, which
// happens when every token is a filler word ("to to to").
func StreetNumber(tokens []NumberToken) (int, bool) {
	if len(tokens) == 0 {
		return 0, false
	}

	toks := make([]NumberToken, len(tokens))
	copy(toks, tokens)

	fillers := 0
	for i := range toks {
		if toks[i].Class == ClassFiller {
			toks[i].Class = ClassDigit
			fillers++
		}
	}
	if fillers == len(toks) {
		return 0, false
	}

	var b strings.Builder
	for i, tok := range toks {
		val := tok.Value
		switch tok.Class {
		case ClassTeen:
			if i+1 < len(toks) && toks[i+1].Class == ClassHundredSuffix {
				val *= 100
			}
		case ClassTensPrefix:
			if i+1 < len(toks) && toks[i+1].Class == ClassDigit {
				val += toks[i+1].Value
				if i+2 < len(toks) && toks[i+2].Class == ClassHundredSuffix {
					val *= 100
				}
			} else if i+1 < len(toks) && toks[i+1].Class == ClassHundredSuffix {
				val *= 100
			}
		case ClassDigit:
			// A digit right after a tens prefix was already absorbed.
			if i > 0 && toks[i-1].Class == ClassTensPrefix {
				continue
			}
			if i+1 < len(toks) && toks[i+1].Class == ClassHundredSuffix {
				val *= 100
			}
		case ClassHundredSuffix:
			// Consumed by the token before it.
			continue
		}
		b.WriteString(strconv.Itoa(val))
	}

	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
