package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
	"github.com/sulaymani-library/go-library-backend/internal/library/store"
	"github.com/sulaymani-library/go-library-backend/internal/library/view"
	"github.com/sulaymani-library/go-library-backend/internal/media"
)

// listContent serves the feed from the mirror, applying the type filter
// and title search. The mirror state rides along so clients can render
// the loading spinner or the blocking error with its retry action.
func (h *Handler) listContent(c *gin.Context) {
	filter := c.DefaultQuery("type", view.FilterAll)
	query := c.Query("q")
	tab := c.Query("category")

	snap := h.mirror.Snapshot()
	items := snap.Content
	if tab != "" {
		items = view.AdminFilter(items, view.AdminTab(tab), query)
	} else {
		items = view.FilterContent(items, filter, query)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "state": snap.State, "content": items})
}

// getContent serves the detail view, with ready-made embed links: videos
// resolve to the hosted player or the native element, readable sources
// get an inline viewer URL with the raw URL kept as the external
// fallback.
func (h *Handler) getContent(c *gin.Context) {
	id := c.Param("id")
	for _, item := range h.mirror.Content() {
		if item.ID == id {
			resp := gin.H{"ok": true, "item": item}
			switch item.Type {
			case domain.TypeVideo:
				resp["media"] = media.ResolveVideo(item.SourceURL)
			case domain.TypeBook, domain.TypeFatwa:
				if item.SourceURL != "" {
					resp["media"] = gin.H{"viewerUrl": media.DocViewerURL(item.SourceURL)}
				}
			}
			c.JSON(http.StatusOK, resp)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "content not found"})
}

func (h *Handler) createContent(c *gin.Context) {
	var in store.ContentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	item, err := h.content.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "item": item})
}

func (h *Handler) updateContent(c *gin.Context) {
	var in store.ContentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.content.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type confirmReq struct {
	ConfirmTitle string `json:"confirm_title"`
}

// deleteContent requires the exact title echoed back before the delete
// is issued. The second confirmation step of the dashboard, expressed as
// an API contract.
func (h *Handler) deleteContent(c *gin.Context) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ConfirmTitle) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "confirm_title is required"})
		return
	}

	item, err := h.content.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if item.Title != req.ConfirmTitle {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "confirm_title does not match"})
		return
	}

	if err := h.content.Delete(c.Request.Context(), item.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// writeError maps store failures: validation short-circuits as 400 before
// any network call, missing documents are 404, and provider write
// failures are 502 (reported once, never retried server-side).
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	}
}
