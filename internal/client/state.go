package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"site-catalog/internal/domain"
)

const uncategorized = "uncategorized"

// State is the session replica of the catalog. Mutations go to the server
// first and are mirrored locally only after the server accepts them.
type State struct {
	client *Client

	mu         sync.RWMutex
	categories []domain.Category
	sites      []domain.Site
}

func NewState(c *Client) *State {
	return &State{client: c}
}

// Sync replaces the replica with the server listing.
func (s *State) Sync(ctx context.Context) error {
	catalog, err := s.client.Listing(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = catalog.Categories
	s.sites = catalog.Sites
	s.mu.Unlock()
	return nil
}

func (s *State) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *State) Sites() []domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sites)
}

// CategoryName resolves a category id for display.
func (s *State) CategoryName(id int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryNameLocked(id)
}

func (s *State) categoryNameLocked(id int64) string {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return uncategorized
}

// InUse reports whether the replica knows of a site in the category.
func (s *State) InUse(categoryID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.sites, func(site domain.Site) bool { return site.CategoryID == categoryID })
}

func (s *State) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, required("name")
	}
	id, err := s.client.CreateCategory(ctx, name)
	if err != nil {
		return domain.Category{}, err
	}
	c := domain.Category{ID: id, Name: name}
	s.mu.Lock()
	s.categories = append(s.categories, c)
	s.mu.Unlock()
	return c, nil
}

func (s *State) RenameCategory(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return required("name")
	}
	if err := s.client.UpdateCategory(ctx, id, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
		}
	}
	for i := range s.sites {
		if s.sites[i].CategoryID == id {
			s.sites[i].CategoryName = name
		}
	}
	return nil
}

// DeleteCategory refuses locally when the replica already shows dependent
// sites. The server still decides for sites this session has not seen.
func (s *State) DeleteCategory(ctx context.Context, id int64) error {
	if s.InUse(id) {
		return fmt.Errorf("category %d still has sites: %w", id, domain.ErrConflict)
	}
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = slices.DeleteFunc(s.categories, func(c domain.Category) bool { return c.ID == id })
	s.mu.Unlock()
	return nil
}

func (s *State) CreateSite(ctx context.Context, in SiteInput) (domain.Site, error) {
	in = trimSite(in)
	if err := checkSite(in); err != nil {
		return domain.Site{}, err
	}
	id, err := s.client.CreateSite(ctx, in)
	if err != nil {
		return domain.Site{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	site := domain.Site{ID: id, Name: in.Name, URL: in.URL, CategoryID: in.CategoryID, CategoryName: s.categoryNameLocked(in.CategoryID)}
	s.sites = append(s.sites, site)
	return site, nil
}

func (s *State) UpdateSite(ctx context.Context, id int64, in SiteInput) error {
	in = trimSite(in)
	if err := checkSite(in); err != nil {
		return err
	}
	if err := s.client.UpdateSite(ctx, id, in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sites {
		if s.sites[i].ID == id {
			s.sites[i].Name = in.Name
			s.sites[i].URL = in.URL
			s.sites[i].CategoryID = in.CategoryID
			s.sites[i].CategoryName = s.categoryNameLocked(in.CategoryID)
		}
	}
	return nil
}

func (s *State) DeleteSite(ctx context.Context, id int64) error {
	if err := s.client.DeleteSite(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.sites = slices.DeleteFunc(s.sites, func(site domain.Site) bool { return site.ID == id })
	s.mu.Unlock()
	return nil
}

func trimSite(in SiteInput) SiteInput {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	return in
}

func checkSite(in SiteInput) error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "The name field is required."
	}
	if in.URL == "" {
		fields["url"] = "The url field is required."
	}
	if in.CategoryID <= 0 {
		fields["category_id"] = "The category id field is required."
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func required(field string) error {
	return domain.NewValidationError(field, fmt.Sprintf("The %s field is required.", field))
}
