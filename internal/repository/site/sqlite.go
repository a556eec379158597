package site

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"site-catalog/internal/db"
	"site-catalog/internal/domain"
)

type sqliteRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLite(sqlDB *sql.DB, logger zerolog.Logger) Repository {
	return &sqliteRepo{db: sqlDB, logger: logger.With().Str("repo", "site").Logger()}
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.name, s.url, s.category_id, c.name, s.created_at, s.updated_at
FROM sites s
JOIN categories c ON c.id = s.category_id
ORDER BY s.name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Site{}
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, (*db.Time)(&s.CreatedAt), (*db.Time)(&s.UpdatedAt)); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	var s domain.Site
	err := r.db.QueryRowContext(ctx, `
SELECT s.id, s.name, s.url, s.category_id, c.name, s.created_at, s.updated_at
FROM sites s
JOIN categories c ON c.id = s.category_id
WHERE s.id = ?
`, id).Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, (*db.Time)(&s.CreatedAt), (*db.Time)(&s.UpdatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepo) Create(ctx context.Context, in domain.Site) (*domain.Site, error) {
	var s domain.Site
	err := r.db.QueryRowContext(ctx, `
INSERT INTO sites (name, url, category_id)
VALUES (?, ?, ?)
RETURNING id, name, url, category_id,
    (SELECT c.name FROM categories c WHERE c.id = sites.category_id),
    created_at, updated_at
`, in.Name, in.URL, in.CategoryID).
		Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, (*db.Time)(&s.CreatedAt), (*db.Time)(&s.UpdatedAt))
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

func (r *sqliteRepo) Update(ctx context.Context, in domain.Site) (*domain.Site, error) {
	var s domain.Site
	err := r.db.QueryRowContext(ctx, `
UPDATE sites
SET name = ?, url = ?, category_id = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING id, name, url, category_id,
    (SELECT c.name FROM categories c WHERE c.id = sites.category_id),
    created_at, updated_at
`, in.Name, in.URL, in.CategoryID, in.ID).
		Scan(&s.ID, &s.Name, &s.URL, &s.CategoryID, &s.CategoryName, (*db.Time)(&s.CreatedAt), (*db.Time)(&s.UpdatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *sqliteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug().Int64("id", id).Msg("deleted")
	return nil
}
