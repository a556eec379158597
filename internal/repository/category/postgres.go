package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"site-catalog/internal/db"
	"site-catalog/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.With().Str("repo", "category").Logger()}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, name, created_at, updated_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const q = `
SELECT id, name, created_at, updated_at
FROM categories
WHERE id = $1
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, name string) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
RETURNING id, name, created_at, updated_at
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
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

func (r *postgresRepo) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	const q = `
UPDATE categories
SET name = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, created_at, updated_at
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, id, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
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

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The row lock conflicts with the KEY SHARE lock a site insert takes on
	// its referenced category, so no site can attach until we commit.
	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var inUse bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sites WHERE category_id = $1)`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("category %d: %w", id, domain.ErrConflict)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("category %d: %w", id, domain.ErrConflict)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Debug().Int64("id", id).Msg("deleted")
	return nil
}
