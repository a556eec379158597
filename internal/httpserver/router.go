package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"site-catalog/internal/authz"
	"site-catalog/internal/domain"
	catalogsvc "site-catalog/internal/service/catalog"
)

// CatalogService is the slice of the catalog service the handlers call.
type CatalogService interface {
	Listing(ctx context.Context) (*domain.Catalog, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in catalogsvc.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in catalogsvc.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetSite(ctx context.Context, id int64) (*domain.Site, error)
	CreateSite(ctx context.Context, in catalogsvc.SiteInput) (*domain.Site, error)
	UpdateSite(ctx context.Context, id int64, in catalogsvc.SiteInput) (*domain.Site, error)
	DeleteSite(ctx context.Context, id int64) error
}

// Deps bundles what the router needs beyond the store.
type Deps struct {
	Catalog     CatalogService
	Authorizer  authz.Authorizer
	CORSOrigins []string
}

// Router builds the catalog http.Handler without a listening server.
func Router(logger zerolog.Logger, db Pinger, deps Deps) (http.Handler, error) {
	return buildRouter(logger, db, deps)
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog service is required")
	}
	if deps.Authorizer == nil {
		return nil, errors.New("authorizer is required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	m := newMetrics()

	router := gin.New()
	router.Use(requestID(), accessLog(logger), gin.Recovery(), m.middleware(), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(m.handler()))

	h := &catalogHandler{svc: deps.Catalog, logger: logger, metrics: m}
	read := authorize(deps.Authorizer, authz.ActionRead)
	write := authorize(deps.Authorizer, authz.ActionWrite)

	router.GET("/", read, h.listing)
	router.GET("/catalog", read, h.listing)

	router.GET("/category/:id", read, h.getCategory)
	router.POST("/category", write, h.createCategory)
	router.PUT("/category/:id", write, h.updateCategory)
	router.DELETE("/category/:id", write, h.deleteCategory)

	router.GET("/site/:id", read, h.getSite)
	router.POST("/site", write, h.createSite)
	router.PUT("/site/:id", write, h.updateSite)
	router.DELETE("/site/:id", write, h.deleteSite)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-TOKEN", "X-Requested-With", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
