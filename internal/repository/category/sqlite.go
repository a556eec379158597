package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"site-catalog/internal/db"
	"site-catalog/internal/domain"
)

type sqliteRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLite(sqlDB *sql.DB, logger zerolog.Logger) Repository {
	return &sqliteRepo{db: sqlDB, logger: logger.With().Str("repo", "category").Logger()}
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, created_at, updated_at
FROM categories
ORDER BY name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, (*db.Time)(&c.CreatedAt), (*db.Time)(&c.UpdatedAt)); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, created_at, updated_at
FROM categories
WHERE id = ?
`, id).Scan(&c.ID, &c.Name, (*db.Time)(&c.CreatedAt), (*db.Time)(&c.UpdatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepo) Create(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
INSERT INTO categories (name)
VALUES (?)
RETURNING id, name, created_at, updated_at
`, name).Scan(&c.ID, &c.Name, (*db.Time)(&c.CreatedAt), (*db.Time)(&c.UpdatedAt))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("category %q: %w", name, domain.ErrDuplicateName)
		}
		r.logger.Error().Err(err).Str("name", name).Msg("create failed")
		return nil, err
	}
	r.logger.Debug().Int64("id", c.ID).Str("name", c.Name).Msg("created")
	return &c, nil
}

func (r *sqliteRepo) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
UPDATE categories
SET name = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING id, name, created_at, updated_at
`, name, id).Scan(&c.ID, &c.Name, (*db.Time)(&c.CreatedAt), (*db.Time)(&c.UpdatedAt))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrNotFound
		case db.IsUniqueViolation(err):
			return nil, fmt.Errorf("category %q: %w", name, domain.ErrDuplicateName)
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("update failed")
		return nil, err
	}
	r.logger.Debug().Int64("id", c.ID).Str("name", c.Name).Msg("updated")
	return &c, nil
}

// Delete relies on _txlock=immediate: the transaction holds the database
// write lock from BEGIN, so no site insert can interleave with the check.
func (r *sqliteRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var inUse bool
	err = tx.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM sites WHERE category_id = c.id)
FROM categories c
WHERE c.id = ?
`, id).Scan(&inUse)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if inUse {
		return fmt.Errorf("category %d: %w", id, domain.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("category %d: %w", id, domain.ErrConflict)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Debug().Int64("id", id).Msg("deleted")
	return nil
}
