// Package parser extracts street addresses and intersections from radio
// dispatch transcripts. A transcript is scanned for spoken-number plus
// street-name mentions over the geometry store's street vocabulary, and each
// resolvable mention is geocoded to a point.
package parser

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trunk-indexer/internal/gis"
)

// Parser recognizes and geocodes location mentions. Safe for concurrent use
// as long as the underlying street reader is.
type Parser struct {
	grammar *Grammar
	streets gis.Reader
}

// New builds a parser whose grammar vocabulary is the reader's street names.
func New(ctx context.Context, streets gis.Reader) (*Parser, error) {
	names, err := streets.StreetNames(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "parser: load street vocabulary")
	}
	if len(names) == 0 {
		return nil, eris.New("parser: street vocabulary is empty, load GIS data first")
	}
	return &Parser{grammar: NewGrammar(names), streets: streets}, nil
}

// Locations scans a transcript and returns the geocoded locations it
// mentions, highest score first. Mentions that cannot be resolved, because
// the number run is all filler, the number falls outside the street's
// ranges, or the named streets never intersect, are dropped; dispatch audio
// is noisy and a partial read is still useful.
func (p *Parser) Locations(ctx context.Context, transcript string) ([]*Location, error) {
	log := zap.L().With(zap.String("component", "parser"))

	agg := newAggregator()
	for _, mention := range p.grammar.FindAll(transcript) {
		tree := mention.Trees[0]
		switch tree.Kind {
		case KindAddress:
			number, ok := StreetNumber(tree.Numbers)
			if !ok {
				log.Debug("unusable street number", zap.String("street", tree.Street))
				continue
			}
			street, err := p.streets.Street(ctx, tree.Street)
			if err != nil {
				return nil, err
			}
			if street == nil {
				continue
			}
			point, ok := street.NumberToPoint(number)
			if !ok {
				log.Debug("street number out of range",
					zap.Int("number", number),
					zap.String("street", tree.Street),
				)
				continue
			}
			agg.add(fmt.Sprintf("%d %s", number, tree.Street), point, 1, mention.Start, mention.End)

		case KindCrossing:
			first, err := p.streets.Street(ctx, tree.Cross[0])
			if err != nil {
				return nil, err
			}
			second, err := p.streets.Street(ctx, tree.Cross[1])
			if err != nil {
				return nil, err
			}
			if first == nil || second == nil {
				continue
			}
			point, ok := first.Intersection(second)
			if !ok {
				log.Debug("streets do not intersect",
					zap.String("first", tree.Cross[0]),
					zap.String("second", tree.Cross[1]),
				)
				continue
			}
			agg.add(tree.Cross[0]+"/"+tree.Cross[1], point, 0, mention.Start, mention.End)
		}
	}
	return agg.results(), nil
}
