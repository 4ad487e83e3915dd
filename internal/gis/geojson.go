package gis

import (
	"encoding/json"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// parseGeoJSON reads a GeoJSON FeatureCollection of street centerlines.
// Features with an empty street name are skipped; a missing address
// attribute or non-line geometry is a load failure.
func parseGeoJSON(path string, opts LoadOptions) ([]rawFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gis: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "gis: parse %s", path)
	}

	var out []rawFeature
	for i, f := range fc.Features {
		name, ok := propString(f.Properties, opts.StreetName)
		if !ok {
			return nil, eris.Errorf("gis: attribute %q not found in %s (feature %d)", opts.StreetName, path, i)
		}
		if name == "" {
			continue
		}

		raw := rawFeature{name: name}
		for _, attr := range []struct {
			key string
			dst *int
		}{
			{opts.FromR, &raw.fromR},
			{opts.ToR, &raw.toR},
			{opts.FromL, &raw.fromL},
			{opts.ToL, &raw.toL},
		} {
			v, ok := propInt(f.Properties, attr.key)
			if !ok {
				return nil, eris.Errorf("gis: attribute %q not found in %s (feature %d)", attr.key, path, i)
			}
			*attr.dst = v
		}

		line, err := flattenLine(f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "gis: feature %d of %s", i, path)
		}
		raw.line = line

		out = append(out, raw)
	}
	return out, nil
}

// propString reads a string property; nil values read as "".
func propString(props map[string]any, key string) (string, bool) {
	v, ok := props[key]
	if !ok {
		return "", false
	}
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// propInt reads a numeric property. GeoJSON numbers decode as float64.
func propInt(props map[string]any, key string) (int, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
