package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
	"github.com/sulaymani-library/go-library-backend/internal/library/view"
)

func (h *Handler) listCategories(c *gin.Context) {
	snap := h.mirror.Snapshot()
	cats := view.CategoriesForFilter(snap.Categories, c.DefaultQuery("type", view.FilterAll))
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": snap.State, "categories": cats})
}

// groupedContent is the category drill-down: the selected category's
// items partitioned into its declared subcategories plus the catch-all
// bucket, with search applied before bucketing.
func (h *Handler) groupedContent(c *gin.Context) {
	name := c.Param("name")
	snap := h.mirror.Snapshot()

	found := false
	for _, cat := range snap.Categories {
		if cat.Name == name {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "category not found"})
		return
	}

	groups := view.GroupBySubcategory(snap.Content, snap.Categories, name, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": snap.State, "groups": groups})
}

type createCategoryReq struct {
	Name string             `json:"name"`
	Type domain.ContentType `json:"type"`
}

func (h *Handler) createCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), req.Name, req.Type)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "category": cat})
}

// deleteCategory confirms against the category name. No cascade: items
// still naming the category fall into the catch-all bucket and are
// flagged by the integrity audit.
func (h *Handler) deleteCategory(c *gin.Context) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ConfirmTitle) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "confirm_title is required"})
		return
	}

	cat, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cat.Name != req.ConfirmTitle {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "confirm_title does not match"})
		return
	}

	if err := h.categories.Delete(c.Request.Context(), cat.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type subcategoryReq struct {
	Name string `json:"name"`
}

func (h *Handler) addSubcategory(c *gin.Context) {
	var req subcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.categories.AddSubcategory(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) removeSubcategory(c *gin.Context) {
	var req subcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.categories.RemoveSubcategory(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
