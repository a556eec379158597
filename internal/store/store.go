// Package store opens the catalog's entity store for whichever engine the
// DSN names and hands out the repositories bound to it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"site-catalog/internal/db"
	"site-catalog/internal/migrate"
	categoryrepo "site-catalog/internal/repository/category"
	siterepo "site-catalog/internal/repository/site"
)

// Options tune Open.
type Options struct {
	// Migrate applies the embedded schema before returning.
	Migrate bool
}

// Store is an open entity store.
type Store struct {
	Driver     db.Driver
	Categories categoryrepo.Repository
	Sites      siterepo.Repository

	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

// Open connects to the database named by dsn.
func Open(ctx context.Context, dsn string, logger zerolog.Logger, opts Options) (*Store, error) {
	driver, err := db.DriverFor(dsn)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("driver", string(driver)).Logger()

	switch driver {
	case db.DriverPostgres:
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if opts.Migrate {
			if err := migrate.Apply(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info().Msg("migrations applied")
		}
		return &Store{
			Driver:     driver,
			Categories: categoryrepo.NewPostgres(pool, logger),
			Sites:      siterepo.NewPostgres(pool, logger),
			pool:       pool,
		}, nil
	default:
		if opts.Migrate {
			if err := migrate.ApplySQLite(ctx, dsn); err != nil {
				return nil, err
			}
			logger.Info().Msg("migrations applied")
		}
		sqlDB, err := db.OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Store{
			Driver:     driver,
			Categories: categoryrepo.NewSQLite(sqlDB, logger),
			Sites:      siterepo.NewSQLite(sqlDB, logger),
			sqlDB:      sqlDB,
		}, nil
	}
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.sqlDB.PingContext(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.sqlDB != nil {
		s.sqlDB.Close()
	}
}
