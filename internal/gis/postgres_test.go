package gis

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/wkb"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestPostgresMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS streets").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	store := NewPostgresWithPool(mock)
	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceStreets(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM segments").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM streets").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO streets").
		WithArgs("UNIVERSITY").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO segments").
		WithArgs("UNIVERSITY", 0, 2000, 2098, 2001, 2099, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	store := NewPostgresWithPool(mock)
	streets := []*Street{{
		Name: "UNIVERSITY",
		Segments: []Segment{
			segment(2000, 2098, 2001, 2099, line(0, 0, 10, 0)),
		},
	}}
	require.NoError(t, store.ReplaceStreets(context.Background(), streets))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStreet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	data, err := wkb.Marshal(line(0, 0, 10, 0), wkb.NDR)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT even_from, even_to, odd_from, odd_to, geom FROM segments").
		WithArgs("UNIVERSITY").
		WillReturnRows(
			pgxmock.NewRows([]string{"even_from", "even_to", "odd_from", "odd_to", "geom"}).
				AddRow(2000, 2098, 2001, 2099, data),
		)

	store := NewPostgresWithPool(mock)
	st, err := store.Street(context.Background(), "UNIVERSITY")
	require.NoError(t, err)
	require.NotNil(t, st)
	require.Len(t, st.Segments, 1)
	assert.Equal(t, 2000, st.Segments[0].EvenFrom)
	assert.Equal(t, 2, st.Segments[0].Line.NumCoords())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStreetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT even_from, even_to, odd_from, odd_to, geom FROM segments").
		WithArgs("NOT A THING").
		WillReturnRows(pgxmock.NewRows([]string{"even_from", "even_to", "odd_from", "odd_to", "geom"}))

	store := NewPostgresWithPool(mock)
	st, err := store.Street(context.Background(), "NOT A THING")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestPostgresStreetNames(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT name FROM streets").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("ASHBY").AddRow("UNIVERSITY"))

	store := NewPostgresWithPool(mock)
	names, err := store.StreetNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ASHBY", "UNIVERSITY"}, names)
}
