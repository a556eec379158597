package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-catalog/internal/db"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "catalog.db")

	st, err := Open(ctx, dsn, zerolog.Nop(), Options{Migrate: true})
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, db.DriverSQLite, st.Driver)
	require.NoError(t, st.Ping(ctx))

	c, err := st.Categories.Create(ctx, "Books")
	require.NoError(t, err)
	assert.Positive(t, c.ID)

	// A second open against the migrated file is a no-op migration.
	again, err := Open(ctx, dsn, zerolog.Nop(), Options{Migrate: true})
	require.NoError(t, err)
	defer again.Close()

	list, err := again.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "mysql://root@localhost/catalog", zerolog.Nop(), Options{})
	assert.ErrorContains(t, err, "unsupported dsn scheme")
}
