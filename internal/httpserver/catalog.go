package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type catalogHandler struct {
	svc     CatalogService
	logger  zerolog.Logger
	metrics *metrics
}

func (h *catalogHandler) listing(c *gin.Context) {
	catalog, err := h.svc.Listing(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *catalogHandler) getCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *catalogHandler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		h.record(c, "category", "create", err)
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), req.input())
	if h.record(c, "category", "create", err) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "id": category.ID})
}

// updateCategory answers 201, unlike updateSite, to stay wire compatible
// with existing clients.
func (h *catalogHandler) updateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.record(c, "category", "update", err)
		return
	}
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		h.record(c, "category", "update", err)
		return
	}
	_, err = h.svc.UpdateCategory(c.Request.Context(), id, req.input())
	if h.record(c, "category", "update", err) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category updated"})
}

func (h *catalogHandler) deleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.record(c, "category", "delete", err)
		return
	}
	err = h.svc.DeleteCategory(c.Request.Context(), id)
	if h.record(c, "category", "delete", err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *catalogHandler) getSite(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	site, err := h.svc.GetSite(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

func (h *catalogHandler) createSite(c *gin.Context) {
	var req siteRequest
	if err := bindJSON(c, &req); err != nil {
		h.record(c, "site", "create", err)
		return
	}
	site, err := h.svc.CreateSite(c.Request.Context(), req.input())
	if h.record(c, "site", "create", err) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Site created", "id": site.ID})
}

func (h *catalogHandler) updateSite(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.record(c, "site", "update", err)
		return
	}
	var req siteRequest
	if err := bindJSON(c, &req); err != nil {
		h.record(c, "site", "update", err)
		return
	}
	_, err = h.svc.UpdateSite(c.Request.Context(), id, req.input())
	if h.record(c, "site", "update", err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Site updated"})
}

func (h *catalogHandler) deleteSite(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.record(c, "site", "delete", err)
		return
	}
	err = h.svc.DeleteSite(c.Request.Context(), id)
	if h.record(c, "site", "delete", err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Site deleted"})
}

// record counts the mutation and, on failure, writes the error response.
// It reports whether the handler must stop.
func (h *catalogHandler) record(c *gin.Context, entity, operation string, err error) bool {
	h.metrics.mutation(entity, operation, err)
	if err == nil {
		return false
	}
	h.fail(c, err)
	return true
}

func (h *catalogHandler) fail(c *gin.Context, err error) {
	if outcome(err) == "error" {
		h.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.FullPath()).Msg("request failed")
	}
	writeError(c, err)
}
