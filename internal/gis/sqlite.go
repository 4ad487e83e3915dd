package gis

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. This is the default
// backend: the loader writes the geometry cache once and every later command
// reads it in place.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "gis: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "gis: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS streets (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS segments (
	street    TEXT NOT NULL REFERENCES streets(name),
	seq       INTEGER NOT NULL,
	even_from INTEGER NOT NULL,
	even_to   INTEGER NOT NULL,
	odd_from  INTEGER NOT NULL,
	odd_to    INTEGER NOT NULL,
	geom      BLOB NOT NULL,
	PRIMARY KEY (street, seq)
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "gis: sqlite migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ReplaceStreets(ctx context.Context, streets []*Street) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "gis: sqlite begin")
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM segments`, `DELETE FROM streets`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "gis: sqlite exec %s", stmt)
		}
	}

	for _, st := range streets {
		if _, err := tx.ExecContext(ctx, `INSERT INTO streets (name) VALUES (?)`, st.Name); err != nil {
			return eris.Wrapf(err, "gis: sqlite insert street %s", st.Name)
		}
		for seq, seg := range st.Segments {
			data, err := wkb.Marshal(seg.Line, wkb.NDR)
			if err != nil {
				return eris.Wrapf(err, "gis: encode segment %d of %s", seq, st.Name)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO segments (street, seq, even_from, even_to, odd_from, odd_to, geom) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				st.Name, seq, seg.EvenFrom, seg.EvenTo, seg.OddFrom, seg.OddTo, data,
			)
			if err != nil {
				return eris.Wrapf(err, "gis: sqlite insert segment %d of %s", seq, st.Name)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "gis: sqlite commit")
	}
	return nil
}

func (s *SQLiteStore) Street(ctx context.Context, name string) (*Street, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT even_from, even_to, odd_from, odd_to, geom FROM segments WHERE street = ? ORDER BY seq`,
		name,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "gis: sqlite query street %s", name)
	}
	defer rows.Close()

	st := &Street{Name: name}
	for rows.Next() {
		var seg Segment
		var data []byte
		if err := rows.Scan(&seg.EvenFrom, &seg.EvenTo, &seg.OddFrom, &seg.OddTo, &data); err != nil {
			return nil, eris.Wrapf(err, "gis: sqlite scan segment of %s", name)
		}
		line, err := decodeLine(data)
		if err != nil {
			return nil, eris.Wrapf(err, "gis: decode segment of %s", name)
		}
		seg.Line = line
		st.Segments = append(st.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "gis: sqlite iterate segments of %s", name)
	}

	if len(st.Segments) == 0 {
		return nil, nil
	}
	return st, nil
}

func (s *SQLiteStore) StreetNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM streets ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "gis: sqlite query street names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "gis: sqlite scan street name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// decodeLine unmarshals a WKB blob into a LineString.
func decodeLine(data []byte) (*geom.LineString, error) {
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, eris.Errorf("gis: unexpected geometry type %T", g)
	}
	return line, nil
}
