package category

import (
	"context"

	"site-catalog/internal/domain"
)

// Repository persists categories. Implementations translate storage failures
// into the domain sentinels: ErrNotFound, ErrDuplicateName and ErrConflict.
type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, id int64, name string) (*domain.Category, error)
	// Delete removes the category unless a site still references it. The
	// dependents check and the delete happen in one transaction.
	Delete(ctx context.Context, id int64) error
}
