package gis

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// parseShapefile reads an ESRI shapefile of street centerlines. Geometry
// must be PolyLine; records with an empty street name are skipped, and
// records with unparseable address numbers are skipped with a debug log.
func parseShapefile(path string, opts LoadOptions) ([]rawFeature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gis: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	attrs := []string{opts.StreetName, opts.FromR, opts.ToR, opts.FromL, opts.ToL}
	for _, attr := range attrs {
		if _, ok := fieldIdx[strings.ToLower(attr)]; !ok {
			return nil, eris.Errorf("gis: attribute %q not found in %s", attr, path)
		}
	}

	var out []rawFeature
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := attrValue(reader, fieldIdx, opts.StreetName)
		if name == "" {
			continue
		}

		raw := rawFeature{name: name}
		ok := true
		for _, attr := range []struct {
			key string
			dst *int
		}{
			{opts.FromR, &raw.fromR},
			{opts.ToR, &raw.toR},
			{opts.FromL, &raw.fromL},
			{opts.ToL, &raw.toL},
		} {
			n, err := strconv.Atoi(attrValue(reader, fieldIdx, attr.key))
			if err != nil {
				ok = false
				break
			}
			*attr.dst = n
		}
		if !ok {
			skipped++
			continue
		}

		pl, isLine := shape.(*shp.PolyLine)
		if !isLine {
			return nil, eris.Errorf("gis: expected PolyLine geometry in %s, got %T", path, shape)
		}
		raw.line = polyLineToLineString(pl)
		if raw.line == nil {
			skipped++
			continue
		}

		out = append(out, raw)
	}

	if skipped > 0 {
		zap.L().Debug("gis: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return out, nil
}

func attrValue(reader *shp.Reader, fieldIdx map[string]int, attr string) string {
	idx, ok := fieldIdx[strings.ToLower(attr)]
	if !ok {
		return ""
	}
	val := strings.TrimRight(reader.Attribute(idx), "\x00")
	return strings.TrimSpace(val)
}

// polyLineToLineString flattens all parts of a shapefile PolyLine into one
// LineString, parts in order.
func polyLineToLineString(pl *shp.PolyLine) *geom.LineString {
	if pl == nil || len(pl.Points) == 0 {
		return nil
	}
	flat := make([]float64, 0, len(pl.Points)*2)
	for _, p := range pl.Points {
		flat = append(flat, p.X, p.Y)
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}
