package main

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trunk-indexer/internal/gis"
)

// openStore builds the configured geometry store. SQLite lives under the
// data directory unless a database_url is set.
func openStore(ctx context.Context) (gis.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = filepath.Join(cfg.DataDir, "gis.db")
		}
		return gis.NewSQLite(dsn)
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store.database_url is required for the postgres driver")
		}
		return gis.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
