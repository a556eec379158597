package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"site-catalog/internal/domain"
	"site-catalog/internal/validation"
)

// Service orchestrates validated mutations of categories and sites. It holds
// no state between calls; every operation goes through the repositories.
type Service struct {
	categories categoryRepo
	sites      siteRepo
	logger     zerolog.Logger
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type siteRepo interface {
	List(ctx context.Context) ([]domain.Site, error)
	GetByID(ctx context.Context, id int64) (*domain.Site, error)
	Create(ctx context.Context, s domain.Site) (*domain.Site, error)
	Update(ctx context.Context, s domain.Site) (*domain.Site, error)
	Delete(ctx context.Context, id int64) error
}

func New(categories categoryRepo, sites siteRepo, logger zerolog.Logger) *Service {
	return &Service{
		categories: categories,
		sites:      sites,
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// CategoryInput is the payload of category create and update.
type CategoryInput struct {
	Name string `json:"name" validate:"nonblank,max=255"`
}

// SiteInput is the payload of site create and update.
type SiteInput struct {
	Name       string `json:"name" validate:"nonblank,max=255"`
	URL        string `json:"url" validate:"nonblank,max=255"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (in *SiteInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
}

// Listing returns both collections for initial page load.
func (s *Service) Listing(ctx context.Context) (*domain.Catalog, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := s.sites.List(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Catalog{Categories: categories, Sites: sites}, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.categories.Create(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", c.ID).Str("name", c.Name).Msg("category created")
	return c, nil
}

// UpdateCategory renames a category. Renaming to its own current name is a
// no-op success; a name held by another category is ErrDuplicateName.
func (s *Service) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.categories.Update(ctx, id, in.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", c.ID).Str("name", c.Name).Msg("category updated")
	return c, nil
}

// DeleteCategory removes a category that no site references. A category in
// use yields ErrConflict and stays in place.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *Service) GetSite(ctx context.Context, id int64) (*domain.Site, error) {
	return s.sites.GetByID(ctx, id)
}

func (s *Service) CreateSite(ctx context.Context, in SiteInput) (*domain.Site, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	site, err := s.sites.Create(ctx, domain.Site{Name: in.Name, URL: in.URL, CategoryID: in.CategoryID})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("site_id", site.ID).Int64("category_id", site.CategoryID).Msg("site created")
	return site, nil
}

// UpdateSite replaces every field of a site. Name uniqueness follows the same
// policy as categories: only a different site holding the name conflicts.
func (s *Service) UpdateSite(ctx context.Context, id int64, in SiteInput) (*domain.Site, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	site, err := s.sites.Update(ctx, domain.Site{ID: id, Name: in.Name, URL: in.URL, CategoryID: in.CategoryID})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("site_id", site.ID).Int64("category_id", site.CategoryID).Msg("site updated")
	return site, nil
}

func (s *Service) DeleteSite(ctx context.Context, id int64) error {
	if err := s.sites.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("site_id", id).Msg("site deleted")
	return nil
}
