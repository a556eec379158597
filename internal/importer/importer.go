package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"site-catalog/internal/domain"
	catalogsvc "site-catalog/internal/service/catalog"
)

// CatalogWriter is the part of the catalog service the importer drives.
type CatalogWriter interface {
	Listing(ctx context.Context) (*domain.Catalog, error)
	CreateCategory(ctx context.Context, in catalogsvc.CategoryInput) (*domain.Category, error)
	CreateSite(ctx context.Context, in catalogsvc.SiteInput) (*domain.Site, error)
}

// Result counts what a run did.
type Result struct {
	CategoriesCreated int
	SitesCreated      int
	SitesSkipped      int
}

// CSVImporter reads category,name,url rows and creates each site through the
// catalog service, creating missing categories on the way.
type CSVImporter struct {
	reader  *csv.Reader
	catalog CatalogWriter

	categories map[string]int64
}

func NewCSVImporter(r io.Reader, catalog CatalogWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		catalog: catalog,
	}
}

// Run imports every row. Sites whose name already exists are skipped; any
// other failure stops the run and reports the offending line.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"category", "name", "url"} {
		if _, ok := index[col]; !ok {
			return res, fmt.Errorf("missing %q column", col)
		}
	}

	if err := i.loadCategories(ctx); err != nil {
		return res, err
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		category := pick(record, index, "category")
		name := pick(record, index, "name")
		url := pick(record, index, "url")
		if category == "" && name == "" && url == "" {
			continue
		}
		if category == "" || name == "" || url == "" {
			return res, fmt.Errorf("line %d: category, name and url are required", line)
		}

		categoryID, created, err := i.ensureCategory(ctx, category)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		if created {
			res.CategoriesCreated++
		}

		_, err = i.catalog.CreateSite(ctx, catalogsvc.SiteInput{Name: name, URL: url, CategoryID: categoryID})
		switch {
		case errors.Is(err, domain.ErrDuplicateName):
			res.SitesSkipped++
		case err != nil:
			return res, fmt.Errorf("line %d: create site %q: %w", line, name, err)
		default:
			res.SitesCreated++
		}
	}

	return res, nil
}

func (i *CSVImporter) loadCategories(ctx context.Context) error {
	catalog, err := i.catalog.Listing(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	i.categories = make(map[string]int64, len(catalog.Categories))
	for _, c := range catalog.Categories {
		i.categories[c.Name] = c.ID
	}
	return nil
}

func (i *CSVImporter) ensureCategory(ctx context.Context, name string) (int64, bool, error) {
	if id, ok := i.categories[name]; ok {
		return id, false, nil
	}
	c, err := i.catalog.CreateCategory(ctx, catalogsvc.CategoryInput{Name: name})
	if errors.Is(err, domain.ErrDuplicateName) {
		// Created concurrently since the listing was loaded.
		if err := i.loadCategories(ctx); err != nil {
			return 0, false, err
		}
		if id, ok := i.categories[name]; ok {
			return id, false, nil
		}
	}
	if err != nil {
		return 0, false, fmt.Errorf("create category %q: %w", name, err)
	}
	i.categories[c.Name] = c.ID
	return c.ID, true, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
