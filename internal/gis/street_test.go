package gis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func line(coords ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, coords)
}

func segment(evenFrom, evenTo, oddFrom, oddTo int, l *geom.LineString) Segment {
	return Segment{EvenFrom: evenFrom, EvenTo: evenTo, OddFrom: oddFrom, OddTo: oddTo, Line: l}
}

func TestNumberToPoint(t *testing.T) {
	st := &Street{
		Name: "UNIVERSITY",
		Segments: []Segment{
			segment(1000, 1998, 1001, 1999, line(0, 0, 10, 0)),
			segment(2000, 2998, 2001, 2999, line(10, 0, 20, 0)),
		},
	}

	tests := []struct {
		name   string
		number int
		lat    float64
		lon    float64
	}{
		{name: "start of even range", number: 1000, lat: 0, lon: 0},
		{name: "end of even range", number: 1998, lat: 0, lon: 10},
		{name: "midpoint", number: 1500, lat: 0, lon: 10 * 500.0 / 998.0},
		{name: "odd side", number: 1001, lat: 0, lon: 0},
		{name: "second segment", number: 2000, lat: 0, lon: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := st.NumberToPoint(tt.number)
			require.True(t, ok)
			assert.InDelta(t, tt.lat, p.Lat, 1e-9)
			assert.InDelta(t, tt.lon, p.Lon, 1e-9)
		})
	}
}

func TestNumberToPointOutOfRange(t *testing.T) {
	st := &Street{
		Name:     "UNIVERSITY",
		Segments: []Segment{segment(1000, 1998, 1001, 1999, line(0, 0, 10, 0))},
	}

	for _, number := range []int{31337, 2, 999} {
		_, ok := st.NumberToPoint(number)
		assert.False(t, ok, "number %d", number)
	}
}

func TestNumberToPointOverlappingRanges(t *testing.T) {
	// Two segments claim 1500 on the even side; interpolation is undefined.
	st := &Street{
		Name: "UNIVERSITY",
		Segments: []Segment{
			segment(1000, 1998, 1001, 1999, line(0, 0, 10, 0)),
			segment(1400, 1600, 1401, 1601, line(10, 0, 20, 0)),
		},
	}

	_, ok := st.NumberToPoint(1500)
	assert.False(t, ok)
}

func TestNumberToPointBentLine(t *testing.T) {
	// A right-angle polyline: the chord from (0,0) to (3,4) is 5 units, so
	// the midpoint number walks 2.5 units of arc along the first leg.
	st := &Street{
		Name:     "BENT",
		Segments: []Segment{segment(100, 198, 101, 199, line(0, 0, 0, 4, 3, 4))},
	}

	p, ok := st.NumberToPoint(148)
	require.True(t, ok)
	// (148-100)/98 of chord 5 is about 2.449 units, still on the first leg.
	assert.InDelta(t, 0.0, p.Lon, 1e-9)
	assert.InDelta(t, 5*48.0/98.0, p.Lat, 1e-9)
}

func TestIntersection(t *testing.T) {
	university := &Street{
		Name:     "UNIVERSITY",
		Segments: []Segment{segment(2, 98, 1, 99, line(0, 0, 10, 0))},
	}
	sacramento := &Street{
		Name:     "SACRAMENTO",
		Segments: []Segment{segment(2, 98, 1, 99, line(5, -5, 5, 5))},
	}

	p, ok := university.Intersection(sacramento)
	require.True(t, ok)
	assert.InDelta(t, 0.0, p.Lat, 1e-9)
	assert.InDelta(t, 5.0, p.Lon, 1e-9)

	// Symmetric.
	p, ok = sacramento.Intersection(university)
	require.True(t, ok)
	assert.InDelta(t, 0.0, p.Lat, 1e-9)
	assert.InDelta(t, 5.0, p.Lon, 1e-9)
}

func TestIntersectionNone(t *testing.T) {
	university := &Street{
		Name:     "UNIVERSITY",
		Segments: []Segment{segment(2, 98, 1, 99, line(0, 0, 10, 0))},
	}
	ashby := &Street{
		Name:     "ASHBY",
		Segments: []Segment{segment(2, 98, 1, 99, line(0, 10, 10, 10))},
	}

	_, ok := university.Intersection(ashby)
	assert.False(t, ok)
}

func TestIntersectionAcrossSegments(t *testing.T) {
	// The crossing sits on the second segment of each street.
	first := &Street{
		Name: "FIRST",
		Segments: []Segment{
			segment(2, 98, 1, 99, line(0, 0, 10, 0)),
			segment(100, 198, 101, 199, line(10, 0, 20, 0)),
		},
	}
	second := &Street{
		Name:     "SECOND",
		Segments: []Segment{segment(2, 98, 1, 99, line(15, -5, 15, 5))},
	}

	p, ok := first.Intersection(second)
	require.True(t, ok)
	assert.InDelta(t, 0.0, p.Lat, 1e-9)
	assert.InDelta(t, 15.0, p.Lon, 1e-9)
}
