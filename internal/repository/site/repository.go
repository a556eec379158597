package site

import (
	"context"

	"site-catalog/internal/domain"
)

// Repository persists sites. Implementations translate storage failures into
// ErrNotFound, ErrDuplicateName and ErrInvalidReference.
type Repository interface {
	List(ctx context.Context) ([]domain.Site, error)
	GetByID(ctx context.Context, id int64) (*domain.Site, error)
	Create(ctx context.Context, s domain.Site) (*domain.Site, error)
	Update(ctx context.Context, s domain.Site) (*domain.Site, error)
	Delete(ctx context.Context, id int64) error
}
