package gis

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadOptions names the source attributes holding the street name and the
// from/to address numbers for each side of the street. Zero values fall back
// to the trunk-recorder centerline conventions.
type LoadOptions struct {
	StreetName string
	FromR      string
	ToR        string
	FromL      string
	ToL        string
}

func (o *LoadOptions) applyDefaults() {
	if o.StreetName == "" {
		o.StreetName = "name"
	}
	if o.FromR == "" {
		o.FromR = "fromr"
	}
	if o.ToR == "" {
		o.ToR = "tor"
	}
	if o.FromL == "" {
		o.FromL = "froml"
	}
	if o.ToL == "" {
		o.ToL = "tol"
	}
}

// LoadInfo summarizes a completed load. Written as a YAML sidecar next to
// the store so `load` runs are auditable.
type LoadInfo struct {
	Sources  []string  `yaml:"sources"`
	Streets  int       `yaml:"streets"`
	Features int       `yaml:"features"`
	LoadedAt time.Time `yaml:"loaded_at"`
}

// rawFeature is one centerline record before per-street assembly.
type rawFeature struct {
	name  string
	fromR int
	toR   int
	fromL int
	toL   int
	line  *geom.LineString
}

// Load parses the given centerline files (GeoJSON or ESRI shapefile, by
// extension) and replaces the store contents with the assembled streets.
// Files are parsed concurrently; the store write is a single transaction
// after all parsing succeeds.
func Load(ctx context.Context, store Store, paths []string, opts LoadOptions) (LoadInfo, error) {
	opts.applyDefaults()

	log := zap.L().With(zap.String("component", "gis.loader"))

	perFile := make([][]rawFeature, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			features, err := parseCenterline(path, opts)
			if err != nil {
				return err
			}
			log.Debug("centerline parsed", zap.String("path", path), zap.Int("features", len(features)))
			perFile[i] = features
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LoadInfo{}, err
	}

	var all []rawFeature
	for _, features := range perFile {
		all = append(all, features...)
	}

	streets := assembleStreets(all)

	if err := store.Migrate(ctx); err != nil {
		return LoadInfo{}, err
	}
	if err := store.ReplaceStreets(ctx, streets); err != nil {
		return LoadInfo{}, err
	}

	info := LoadInfo{
		Sources:  paths,
		Streets:  len(streets),
		Features: len(all),
		LoadedAt: time.Now().UTC(),
	}

	log.Info("geometry store loaded",
		zap.Int("streets", info.Streets),
		zap.Int("features", info.Features),
	)
	return info, nil
}

// parseCenterline dispatches on file extension.
func parseCenterline(path string, opts LoadOptions) ([]rawFeature, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return parseShapefile(path, opts)
	case ".json", ".geojson":
		return parseGeoJSON(path, opts)
	default:
		return nil, eris.Errorf("gis: unsupported centerline format %q", filepath.Ext(path))
	}
}

// assembleStreets groups records by spoken street name, preserving first-seen
// street order and source record order within a street. Which address pair is
// the even side is decided per street from its first record, matching how
// centerline files mark one consistent side per street.
func assembleStreets(features []rawFeature) []*Street {
	byName := make(map[string]*Street)
	rightIsEven := make(map[string]bool)
	var order []string

	for _, f := range features {
		name := SpokenStreetName(f.name)
		if name == "" {
			continue
		}

		st, ok := byName[name]
		if !ok {
			st = &Street{Name: name}
			byName[name] = st
			order = append(order, name)
			rightIsEven[name] = f.fromR%2 == 0
		}

		seg := Segment{Line: f.line}
		if rightIsEven[name] {
			seg.EvenFrom, seg.EvenTo = f.fromR, f.toR
			seg.OddFrom, seg.OddTo = f.fromL, f.toL
		} else {
			seg.EvenFrom, seg.EvenTo = f.fromL, f.toL
			seg.OddFrom, seg.OddTo = f.fromR, f.toR
		}
		st.Segments = append(st.Segments, seg)
	}

	out := make([]*Street, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// flattenLine reduces a line geometry to a single LineString. MultiLineString
// parts are concatenated in order; anything else is a malformed source.
func flattenLine(g geom.T) (*geom.LineString, error) {
	switch t := g.(type) {
	case *geom.LineString:
		return t, nil
	case *geom.MultiLineString:
		if t.NumLineStrings() == 0 {
			return nil, eris.New("gis: empty MultiLineString")
		}
		var flat []float64
		for i := 0; i < t.NumLineStrings(); i++ {
			flat = append(flat, t.LineString(i).FlatCoords()...)
		}
		return geom.NewLineStringFlat(geom.XY, flat), nil
	default:
		return nil, eris.Errorf("gis: expected line geometry, got %T", g)
	}
}
