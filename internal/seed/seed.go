package seed

import (
	"context"
	"errors"
	"fmt"

	"site-catalog/internal/domain"
	catalogsvc "site-catalog/internal/service/catalog"
)

// Catalog is the part of the catalog service seeding needs.
type Catalog interface {
	Listing(ctx context.Context) (*domain.Catalog, error)
	CreateCategory(ctx context.Context, in catalogsvc.CategoryInput) (*domain.Category, error)
	CreateSite(ctx context.Context, in catalogsvc.SiteInput) (*domain.Site, error)
}

type siteSeed struct {
	Name     string
	URL      string
	Category string
}

var demoCategories = []string{"Documentation", "News", "Tools"}

var demoSites = []siteSeed{
	{Name: "Go Documentation", URL: "https://go.dev/doc/", Category: "Documentation"},
	{Name: "PostgreSQL Manual", URL: "https://www.postgresql.org/docs/", Category: "Documentation"},
	{Name: "Hacker News", URL: "https://news.ycombinator.com/", Category: "News"},
	{Name: "Go Playground", URL: "https://go.dev/play/", Category: "Tools"},
}

// Apply inserts demo data for manual testing. Entries that already exist are
// left untouched, so running it twice is harmless.
func Apply(ctx context.Context, catalog Catalog) error {
	listing, err := catalog.Listing(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	ids := make(map[string]int64, len(listing.Categories))
	for _, c := range listing.Categories {
		ids[c.Name] = c.ID
	}

	for _, name := range demoCategories {
		if _, ok := ids[name]; ok {
			continue
		}
		c, err := catalog.CreateCategory(ctx, catalogsvc.CategoryInput{Name: name})
		if err != nil {
			return fmt.Errorf("create category %s: %w", name, err)
		}
		ids[name] = c.ID
	}

	for _, s := range demoSites {
		_, err := catalog.CreateSite(ctx, catalogsvc.SiteInput{Name: s.Name, URL: s.URL, CategoryID: ids[s.Category]})
		if err != nil && !errors.Is(err, domain.ErrDuplicateName) {
			return fmt.Errorf("create site %s: %w", s.Name, err)
		}
	}

	return nil
}
