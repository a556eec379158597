package site

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
	return &postgresRepo{pool: pool, logger: logger.With().Str("repo", "site").Logger()}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Site, error) {
	const q = `
SELECT s.id, s.name, s.url, s.category_id, c.name, s.created_at, s.updated_at
FROM sites s
JOIN categories c ON c.id = s.category_id
ORDER BY s.name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Site{}
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	const q = `
SELECT s.id, s.name, s.url, s.category_id, c.name, s.created_at, s.updated_at
FROM sites s
JOIN categories c ON c.id = s.category_id
WHERE s.id = $1
`
	var s domain.Site
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Site) (*domain.Site, error) {
	const q = `
INSERT INTO sites (name, url, category_id)
VALUES ($1, $2, $3)
RETURNING id, name, url, category_id,
    (SELECT c.name FROM categories c WHERE c.id = sites.category_id),
    created_at, updated_at
`
	var s domain.Site
	err := r.pool.QueryRow(ctx, q, in.Name, in.URL, in.CategoryID).
		Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if mapped := mapWriteError(err, in); mapped != nil {
			return nil, mapped
		}
		r.logger.Error().Err(err).Str("name", in.Name).Msg("create failed")
		return nil, err
	}
	r.logger.Debug().Int64("id", s.ID).Int64("category_id", s.CategoryID).Msg("created")
	return &s, nil
}

func (r *postgresRepo) Update(ctx context.Context, in domain.Site) (*domain.Site, error) {
	const q = `
UPDATE sites
SET name = $2, url = $3, category_id = $4, updated_at = now()
WHERE id = $1
RETURNING id, name, url, category_id,
    (SELECT c.name FROM categories c WHERE c.id = sites.category_id),
    created_at, updated_at
`
	var s domain.Site
	err := r.pool.QueryRow(ctx, q, in.ID, in.Name, in.URL, in.CategoryID).
		Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if mapped := mapWriteError(err, in); mapped != nil {
			return nil, mapped
		}
		r.logger.Error().Err(err).Int64("id", in.ID).Msg("update failed")
		return nil, err
	}
	r.logger.Debug().Int64("id", s.ID).Int64("category_id", s.CategoryID).Msg("updated")
	return &s, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug().Int64("id", id).Msg("deleted")
	return nil
}

// mapWriteError translates constraint failures shared by both drivers.
func mapWriteError(err error, in domain.Site) error {
	switch {
	case db.IsUniqueViolation(err):
		return fmt.Errorf("site %q: %w", in.Name, domain.ErrDuplicateName)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("category %d: %w", in.CategoryID, domain.ErrInvalidReference)
	}
	return nil
}
