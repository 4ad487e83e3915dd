package parser

import "strings"

// Mention is one non-overlapping grammar match inside a transcript. Start and
// End are byte offsets into the transcript; Trees holds every admissible
// reading of the matched span, crossings first.
type Mention struct {
	Trees []ParseTree
	Start int
	End   int
}

// FindAll scans a transcript left to right and returns every non-overlapping
// mention. After a match the scan resumes one byte past its end, so spans
// never overlap and earlier matches shadow later readings of the same words.
func (g *Grammar) FindAll(transcript string) []Mention {
	var mentions []Mention
	pos := 0
	for pos < len(transcript) {
		m, ok := g.findFirst(transcript[pos:])
		if !ok {
			break
		}
		m.Start += pos
		m.End += pos
		mentions = append(mentions, m)
		pos = m.End + 1
	}
	return mentions
}

// findFirst locates the leftmost match in text, grown greedily: from each
// start word the window extends right and the longest parse wins. Failures
// before the first success keep growing, since a partial street name does
// not parse until the full name completes; the first failure after a success
// ends the window.
func (g *Grammar) findFirst(text string) (Mention, bool) {
	words := strings.Split(text, " ")

	spos := 0
	for start := 0; start < len(words); start++ {
		if start > 0 {
			spos += len(words[start-1]) + 1
		}

		var best Mention
		found := false
		for end := start + 1; end <= len(words); end++ {
			window := words[start:end]
			trees := g.Parse(window)
			if len(trees) > 0 {
				best = Mention{
					Trees: trees,
					Start: spos,
					End:   spos + len(strings.Join(window, " ")),
				}
				found = true
			} else if found {
				break
			}
		}
		if found {
			return best, true
		}
	}
	return Mention{}, false
}
