package gis

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. Declared as an
// interface so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store on a shared Postgres database. Used when
// several indexer instances need one geometry store instead of a local
// SQLite file.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects a PostgresStore to the given database URL.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "gis: postgres parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "gis: postgres create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "gis: postgres ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (or a mock in tests).
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
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
	geom      BYTEA NOT NULL,
	PRIMARY KEY (street, seq)
)`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "gis: postgres migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ReplaceStreets(ctx context.Context, streets []*Street) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "gis: postgres begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range []string{`DELETE FROM segments`, `DELETE FROM streets`} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return eris.Wrapf(err, "gis: postgres exec %s", stmt)
		}
	}

	for _, st := range streets {
		if _, err := tx.Exec(ctx, `INSERT INTO streets (name) VALUES ($1)`, st.Name); err != nil {
			return eris.Wrapf(err, "gis: postgres insert street %s", st.Name)
		}
		for seq, seg := range st.Segments {
			data, err := wkb.Marshal(seg.Line, wkb.NDR)
			if err != nil {
				return eris.Wrapf(err, "gis: encode segment %d of %s", seq, st.Name)
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO segments (street, seq, even_from, even_to, odd_from, odd_to, geom) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				st.Name, seq, seg.EvenFrom, seg.EvenTo, seg.OddFrom, seg.OddTo, data,
			)
			if err != nil {
				return eris.Wrapf(err, "gis: postgres insert segment %d of %s", seq, st.Name)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "gis: postgres commit")
	}
	return nil
}

func (s *PostgresStore) Street(ctx context.Context, name string) (*Street, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT even_from, even_to, odd_from, odd_to, geom FROM segments WHERE street = $1 ORDER BY seq`,
		name,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "gis: postgres query street %s", name)
	}
	defer rows.Close()

	st := &Street{Name: name}
	for rows.Next() {
		var seg Segment
		var data []byte
		if err := rows.Scan(&seg.EvenFrom, &seg.EvenTo, &seg.OddFrom, &seg.OddTo, &data); err != nil {
			return nil, eris.Wrapf(err, "gis: postgres scan segment of %s", name)
		}
		line, err := decodeLine(data)
		if err != nil {
			return nil, eris.Wrapf(err, "gis: decode segment of %s", name)
		}
		seg.Line = line
		st.Segments = append(st.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "gis: postgres iterate segments of %s", name)
	}

	if len(st.Segments) == 0 {
		return nil, nil
	}
	return st, nil
}

func (s *PostgresStore) StreetNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM streets ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "gis: postgres query street names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "gis: postgres scan street name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
