package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-catalog/internal/authz"
	"site-catalog/internal/domain"
	"site-catalog/internal/httpserver"
	catalogsvc "site-catalog/internal/service/catalog"
	"site-catalog/internal/store"
)

// countingHandler records how many requests reach the API.
type countingHandler struct {
	next  http.Handler
	calls atomic.Int64
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls.Add(1)
	h.next.ServeHTTP(w, r)
}

func newTestAPI(t *testing.T, a authz.Authorizer) (*httptest.Server, *countingHandler) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, "file:"+filepath.Join(t.TempDir(), "catalog.db"), zerolog.Nop(), store.Options{Migrate: true})
	require.NoError(t, err)
	t.Cleanup(st.Close)

	gin.SetMode(gin.TestMode)
	router, err := httpserver.Router(zerolog.Nop(), st, httpserver.Deps{
		Catalog:    catalogsvc.New(st.Categories, st.Sites, zerolog.Nop()),
		Authorizer: a,
	})
	require.NoError(t, err)

	counter := &countingHandler{next: router}
	srv := httptest.NewServer(counter)
	t.Cleanup(srv.Close)
	return srv, counter
}

func TestStateMirrorsSuccessfulMutations(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestAPI(t, authz.AllowAll{})
	state := NewState(New(srv.URL))
	require.NoError(t, state.Sync(ctx))
	assert.Empty(t, state.Categories())

	books, err := state.CreateCategory(ctx, " Books ")
	require.NoError(t, err)
	assert.Equal(t, "Books", books.Name)

	lib, err := state.CreateSite(ctx, SiteInput{Name: "Lib", URL: "lib.com", CategoryID: books.ID})
	require.NoError(t, err)
	assert.Equal(t, "Books", lib.CategoryName)
	assert.True(t, state.InUse(books.ID))

	require.NoError(t, state.RenameCategory(ctx, books.ID, "Library"))
	assert.Equal(t, "Library", state.CategoryName(books.ID))
	assert.Equal(t, "Library", state.Sites()[0].CategoryName)

	require.NoError(t, state.UpdateSite(ctx, lib.ID, SiteInput{Name: "Lib", URL: "library.org", CategoryID: books.ID}))
	assert.Equal(t, "library.org", state.Sites()[0].URL)

	// The replica matches what a fresh sync sees.
	fresh := NewState(New(srv.URL))
	require.NoError(t, fresh.Sync(ctx))
	assert.Equal(t, "Library", fresh.Categories()[0].Name)
	assert.Equal(t, "library.org", fresh.Sites()[0].URL)

	require.NoError(t, state.DeleteSite(ctx, lib.ID))
	assert.Empty(t, state.Sites())
	require.NoError(t, state.DeleteCategory(ctx, books.ID))
	assert.Empty(t, state.Categories())
	assert.Equal(t, "uncategorized", state.CategoryName(books.ID))
}

func TestStateLeavesReplicaOnFailure(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestAPI(t, authz.AllowAll{})
	state := NewState(New(srv.URL))

	_, err := state.CreateCategory(ctx, "Books")
	require.NoError(t, err)

	_, err = state.CreateCategory(ctx, "Books")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Fields, "name")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.NotErrorIs(t, err, domain.ErrInvalidReference)
	assert.Len(t, state.Categories(), 1)

	_, err = state.CreateSite(ctx, SiteInput{Name: "X", URL: "x.com", CategoryID: 42})
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "category_id")
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.NotErrorIs(t, err, domain.ErrDuplicateName)
	assert.Empty(t, state.Sites())

	err = state.DeleteSite(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateRejectsLocally(t *testing.T) {
	ctx := context.Background()
	srv, counter := newTestAPI(t, authz.AllowAll{})
	state := NewState(New(srv.URL))

	books, err := state.CreateCategory(ctx, "Books")
	require.NoError(t, err)
	_, err = state.CreateSite(ctx, SiteInput{Name: "Lib", URL: "lib.com", CategoryID: books.ID})
	require.NoError(t, err)
	before := counter.calls.Load()

	_, err = state.CreateCategory(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = state.CreateSite(ctx, SiteInput{Name: "X", URL: "", CategoryID: books.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = state.DeleteCategory(ctx, books.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, before, counter.calls.Load(), "local rejections must not reach the server")
	assert.Len(t, state.Categories(), 1)
}

func TestServerConflictWhenReplicaIsStale(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestAPI(t, authz.AllowAll{})
	stale := NewState(New(srv.URL))
	other := NewState(New(srv.URL))

	books, err := stale.CreateCategory(ctx, "Books")
	require.NoError(t, err)
	require.NoError(t, other.Sync(ctx))
	_, err = other.CreateSite(ctx, SiteInput{Name: "Lib", URL: "lib.com", CategoryID: books.ID})
	require.NoError(t, err)

	err = stale.DeleteCategory(ctx, books.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Len(t, stale.Categories(), 1)
}

func TestClientSendsBearerToken(t *testing.T) {
	ctx := context.Background()
	a, err := authz.NewJWT("secret", "site-catalog")
	require.NoError(t, err)
	srv, _ := newTestAPI(t, a)

	_, err = New(srv.URL).Listing(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	token, err := a.Sign("tester", []string{authz.ScopeWrite}, time.Minute)
	require.NoError(t, err)
	c := New(srv.URL+"/", WithToken(token))
	id, err := c.CreateCategory(ctx, "Books")
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestAPIErrorMatchesSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   *APIError
		match []error
		miss  []error
	}{
		{
			name:  "name taken",
			err:   &APIError{Status: http.StatusUnprocessableEntity, Fields: map[string]string{"name": domain.MsgNameTaken}},
			match: []error{domain.ErrValidation, domain.ErrDuplicateName},
			miss:  []error{domain.ErrInvalidReference, domain.ErrNotFound},
		},
		{
			name:  "unknown category",
			err:   &APIError{Status: http.StatusUnprocessableEntity, Fields: map[string]string{"category_id": domain.MsgInvalidCategory}},
			match: []error{domain.ErrValidation, domain.ErrInvalidReference},
			miss:  []error{domain.ErrDuplicateName},
		},
		{
			name:  "required name",
			err:   &APIError{Status: http.StatusUnprocessableEntity, Fields: map[string]string{"name": "The name field is required."}},
			match: []error{domain.ErrValidation},
			miss:  []error{domain.ErrDuplicateName},
		},
		{
			name:  "in use",
			err:   &APIError{Status: http.StatusConflict},
			match: []error{domain.ErrConflict},
			miss:  []error{domain.ErrValidation, domain.ErrDuplicateName},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range tt.match {
				assert.ErrorIs(t, tt.err, target)
			}
			for _, target := range tt.miss {
				assert.NotErrorIs(t, tt.err, target)
			}
		})
	}
}
