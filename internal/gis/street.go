// Package gis holds the street geometry store: per-street address-range
// segments with centerline geometry, plus the interpolation and intersection
// math used to turn a recognized street mention into a coordinate.
package gis

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy/lineintersector"
)

// Point is a geographic coordinate in WGS84.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Segment is one contiguous run of a street's centerline annotated with the
// address-number range it covers on each side.
type Segment struct {
	EvenFrom int
	EvenTo   int
	OddFrom  int
	OddTo    int
	Line     *geom.LineString
}

// Street is a named street with its segments in source order.
type Street struct {
	Name     string
	Segments []Segment
}

// NumberToPoint estimates the coordinate for a street number.
//
// The estimate assumes addresses are linearly spaced along the containing
// segment: the number's relative position inside its address range is scaled
// by the straight-line distance between the segment's endpoints, and that
// distance is walked along the polyline. Returns false when no segment's
// range (on the number's parity side) contains the number, or when more than
// one does — overlapping same-parity ranges make interpolation undefined.
func (s *Street) NumberToPoint(number int) (Point, bool) {
	match := -1
	for i, seg := range s.Segments {
		lo, hi := seg.sideRange(number)
		if number < lo || number > hi {
			continue
		}
		if match >= 0 {
			return Point{}, false
		}
		match = i
	}
	if match < 0 {
		return Point{}, false
	}

	seg := s.Segments[match]
	lo, hi := seg.sideRange(number)

	pos := 0.0
	if hi != lo {
		pos = float64(number-lo) / float64(hi-lo)
	}

	n := seg.Line.NumCoords()
	if n == 0 {
		return Point{}, false
	}
	chord := coordDist(seg.Line.Coord(0), seg.Line.Coord(n-1))

	c := interpolate(seg.Line, chord*pos)
	return Point{Lat: c.Y(), Lon: c.X()}, true
}

// Intersection returns the coordinate where this street crosses another.
//
// All segments of each street are treated as one merged line. When the two
// merged lines touch at more than one point (messy source polylines produce
// spurious multi-intersections), the candidates are scanned in segment order
// and the first point lying exactly on both merged lines wins. Returns false
// when the streets do not cross.
func (s *Street) Intersection(other *Street) (Point, bool) {
	var candidates []geom.Coord

	for _, sa := range s.Segments {
		for _, sb := range other.Segments {
			for _, c := range lineCrossings(sa.Line, sb.Line) {
				if !containsCoord(candidates, c) {
					candidates = append(candidates, c)
				}
			}
		}
	}

	if len(candidates) == 0 {
		return Point{}, false
	}
	if len(candidates) == 1 {
		return Point{Lat: candidates[0].Y(), Lon: candidates[0].X()}, true
	}

	for _, c := range candidates {
		if s.containsPoint(c) && other.containsPoint(c) {
			return Point{Lat: c.Y(), Lon: c.X()}, true
		}
	}
	return Point{}, false
}

// sideRange selects the even- or odd-side address range by number parity.
func (seg *Segment) sideRange(number int) (lo, hi int) {
	if number%2 == 0 {
		return seg.EvenFrom, seg.EvenTo
	}
	return seg.OddFrom, seg.OddTo
}

// lineCrossings returns every intersection point between two polylines,
// computed pairwise over their segments with the robust strategy.
func lineCrossings(a, b *geom.LineString) []geom.Coord {
	var out []geom.Coord
	strategy := lineintersector.RobustLineIntersector{}

	for i := 0; i < a.NumCoords()-1; i++ {
		for j := 0; j < b.NumCoords()-1; j++ {
			result := lineintersector.LineIntersectsLine(
				strategy,
				a.Coord(i), a.Coord(i+1),
				b.Coord(j), b.Coord(j+1),
			)
			if !result.HasIntersection() {
				continue
			}
			out = append(out, result.Intersection()...)
		}
	}
	return out
}

// containsPoint reports whether the coordinate lies on any segment of the
// street's merged line.
func (s *Street) containsPoint(c geom.Coord) bool {
	strategy := lineintersector.RobustLineIntersector{}
	for _, seg := range s.Segments {
		for i := 0; i < seg.Line.NumCoords()-1; i++ {
			if lineintersector.PointIntersectsLine(strategy, c, seg.Line.Coord(i), seg.Line.Coord(i+1)) {
				return true
			}
		}
	}
	return false
}

// interpolate walks the polyline by arc length and returns the point at the
// given distance from the first vertex. Distances past the end clamp to the
// last vertex.
func interpolate(line *geom.LineString, dist float64) geom.Coord {
	n := line.NumCoords()
	if dist <= 0 || n == 1 {
		return line.Coord(0)
	}

	walked := 0.0
	for i := 0; i < n-1; i++ {
		a, b := line.Coord(i), line.Coord(i+1)
		d := coordDist(a, b)
		if d > 0 && walked+d >= dist {
			t := (dist - walked) / d
			return geom.Coord{
				a.X() + (b.X()-a.X())*t,
				a.Y() + (b.Y()-a.Y())*t,
			}
		}
		walked += d
	}
	return line.Coord(n - 1)
}

func coordDist(a, b geom.Coord) float64 {
	return math.Hypot(b.X()-a.X(), b.Y()-a.Y())
}

func containsCoord(coords []geom.Coord, c geom.Coord) bool {
	for _, existing := range coords {
		if existing.X() == c.X() && existing.Y() == c.Y() {
			return true
		}
	}
	return false
}
