package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-catalog/internal/authz"
	"site-catalog/internal/httpserver"
	catalogsvc "site-catalog/internal/service/catalog"
	"site-catalog/internal/store"
)

func testServer(t *testing.T) string {
	t.Helper()
	st, err := store.Open(context.Background(), "file:"+filepath.Join(t.TempDir(), "catalog.db"), zerolog.Nop(), store.Options{Migrate: true})
	require.NoError(t, err)
	t.Cleanup(st.Close)

	gin.SetMode(gin.TestMode)
	h, err := httpserver.Router(zerolog.Nop(), st, httpserver.Deps{
		Catalog:    catalogsvc.New(st.Categories, st.Sites, zerolog.Nop()),
		Authorizer: authz.AllowAll{},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogctlLifecycle(t *testing.T) {
	server := testServer(t)

	out, err := run(t, server, "category", "create", "Books")
	require.NoError(t, err)
	assert.Contains(t, out, "Category created (id 1)")

	out, err = run(t, server, "site", "create", "--name", "Lib", "--url", "lib.com", "--category", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Site created")

	out, err = run(t, server, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Books")
	assert.Contains(t, out, "lib.com")

	_, err = run(t, server, "category", "delete", "1")
	assert.Error(t, err, "category with sites must not be deletable")

	_, err = run(t, server, "category", "rename", "1", "Library")
	require.NoError(t, err)

	_, err = run(t, server, "site", "update", "1", "--name", "Lib", "--url", "library.org", "--category", "1")
	require.NoError(t, err)

	_, err = run(t, server, "site", "delete", "1")
	require.NoError(t, err)
	out, err = run(t, server, "category", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Category deleted")
}

func TestCatalogctlRejectsBadID(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "site", "delete", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ISSUER", "site-catalog")

	out, err := run(t, "http://unused", "token", "--subject", "ops")
	require.NoError(t, err)

	a, err := authz.NewJWT("secret", "site-catalog")
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/category", nil)
	req.Header.Set("Authorization", "Bearer "+string(bytes.TrimSpace([]byte(out))))
	p, err := a.Authorize(req, authz.ActionWrite)
	require.NoError(t, err)
	assert.Equal(t, "ops", p.Subject)
}
