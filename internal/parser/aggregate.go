package parser

import (
	"sort"

	"github.com/sells-group/trunk-indexer/internal/gis"
)

// aggregator merges repeated mentions of the same place into one Location.
// Insertion order is kept so equal scores resolve to first-mentioned first.
type aggregator struct {
	byKey map[string]*Location
	order []*Location
}

func newAggregator() *aggregator {
	return &aggregator{byKey: make(map[string]*Location)}
}

func (a *aggregator) add(key string, point gis.Point, base, start, end int) {
	loc, ok := a.byKey[key]
	if !ok {
		loc = newLocation(key, point, base)
		a.byKey[key] = loc
		a.order = append(a.order, loc)
	}
	loc.AddPosition(start, end)
}

// results returns the merged locations ordered by descending score.
func (a *aggregator) results() []*Location {
	out := make([]*Location, len(a.order))
	copy(out, a.order)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}
