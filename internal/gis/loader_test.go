package gis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const centerlineFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "university", "fromr": 2000, "tor": 2098, "froml": 2001, "tol": 2099},
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 0]]}
		},
		{
			"type": "Feature",
			"properties": {"name": "university", "fromr": 2100, "tor": 2198, "froml": 2101, "tol": 2199},
			"geometry": {"type": "LineString", "coordinates": [[10, 0], [20, 0]]}
		},
		{
			"type": "Feature",
			"properties": {"name": "51st", "fromr": 1, "tor": 99, "froml": 2, "tol": 98},
			"geometry": {"type": "MultiLineString", "coordinates": [[[0, 10], [10, 10]], [[10, 10], [20, 10]]]}
		},
		{
			"type": "Feature",
			"properties": {"name": "", "fromr": 1, "tor": 9, "froml": 2, "tol": 8},
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}
		}
	]
}`

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "gis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	path := writeFixture(t, "centerlines.geojson", centerlineFixture)

	info, err := Load(ctx, store, []string{path}, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, info.Streets)
	assert.Equal(t, 3, info.Features)
	assert.Equal(t, []string{path}, info.Sources)
	assert.False(t, info.LoadedAt.IsZero())

	names, err := store.StreetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"FIFTY FIRST", "UNIVERSITY"}, names)
}

func TestLoadAssemblesSegments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	path := writeFixture(t, "centerlines.geojson", centerlineFixture)

	_, err := Load(ctx, store, []string{path}, LoadOptions{})
	require.NoError(t, err)

	// Right side is even for university (fromr is even).
	university, err := store.Street(ctx, "UNIVERSITY")
	require.NoError(t, err)
	require.NotNil(t, university)
	require.Len(t, university.Segments, 2)
	assert.Equal(t, 2000, university.Segments[0].EvenFrom)
	assert.Equal(t, 2098, university.Segments[0].EvenTo)
	assert.Equal(t, 2001, university.Segments[0].OddFrom)
	assert.Equal(t, 2100, university.Segments[1].EvenFrom)

	// Right side is odd for 51st, so the even range comes from the left,
	// and the multi-part geometry flattens into one line.
	fiftyFirst, err := store.Street(ctx, "FIFTY FIRST")
	require.NoError(t, err)
	require.NotNil(t, fiftyFirst)
	require.Len(t, fiftyFirst.Segments, 1)
	assert.Equal(t, 2, fiftyFirst.Segments[0].EvenFrom)
	assert.Equal(t, 98, fiftyFirst.Segments[0].EvenTo)
	assert.Equal(t, 1, fiftyFirst.Segments[0].OddFrom)
	assert.Equal(t, 4, fiftyFirst.Segments[0].Line.NumCoords())
}

func TestLoadReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	path := writeFixture(t, "centerlines.geojson", centerlineFixture)

	_, err := Load(ctx, store, []string{path}, LoadOptions{})
	require.NoError(t, err)

	smaller := `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"name": "ashby", "fromr": 2, "tor": 98, "froml": 1, "tol": 99},
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [5, 5]]}
		}]
	}`
	_, err = Load(ctx, store, []string{writeFixture(t, "small.geojson", smaller)}, LoadOptions{})
	require.NoError(t, err)

	names, err := store.StreetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ASHBY"}, names)
}

func TestLoadMissingAttribute(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	broken := `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"name": "ashby", "fromr": 2, "tor": 98},
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [5, 5]]}
		}]
	}`
	_, err := Load(ctx, store, []string{writeFixture(t, "broken.geojson", broken)}, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "froml")
}

func TestLoadCustomAttributeNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	renamed := `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"street_nam": "ashby", "fromr": 2, "tor": 98, "froml": 1, "tol": 99},
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [5, 5]]}
		}]
	}`
	path := writeFixture(t, "renamed.geojson", renamed)

	_, err := Load(ctx, store, []string{path}, LoadOptions{})
	require.Error(t, err)

	info, err := Load(ctx, store, []string{path}, LoadOptions{StreetName: "street_nam"})
	require.NoError(t, err)
	assert.Equal(t, 1, info.Streets)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := Load(ctx, store, []string{writeFixture(t, "streets.csv", "a,b\n")}, LoadOptions{})
	require.Error(t, err)
}

func TestStoreStreetMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Migrate(ctx))

	st, err := store.Street(ctx, "NOT A THING")
	require.NoError(t, err)
	assert.Nil(t, st)
}
