package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/employer-resolve/internal/db"
	"github.com/sells-group/employer-resolve/internal/employer"
	"github.com/sells-group/employer-resolve/internal/match"
)

// openStore opens the configured store backend and applies migrations.
func openStore(ctx context.Context) (employer.Store, error) {
	var (
		st  employer.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = employer.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	case "postgres":
		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = employer.NewPostgresStore(pool)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// matchConfig builds the engine configuration from the loaded config.
func matchConfig() match.Config {
	return match.Config{
		NumHashes:   cfg.Match.NumHashes,
		Bands:       cfg.Match.Bands,
		ShingleSize: cfg.Match.ShingleSize,
	}
}
