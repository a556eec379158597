package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogsvc "site-catalog/internal/service/catalog"
	"site-catalog/internal/store"
)

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, "file:"+filepath.Join(t.TempDir(), "seed.db"), zerolog.Nop(), store.Options{Migrate: true})
	require.NoError(t, err)
	defer st.Close()
	svc := catalogsvc.New(st.Categories, st.Sites, zerolog.Nop())

	require.NoError(t, Apply(ctx, svc))
	require.NoError(t, Apply(ctx, svc))

	listing, err := svc.Listing(ctx)
	require.NoError(t, err)
	assert.Len(t, listing.Categories, len(demoCategories))
	assert.Len(t, listing.Sites, len(demoSites))
	for _, s := range listing.Sites {
		assert.NotEmpty(t, s.CategoryName)
	}
}
