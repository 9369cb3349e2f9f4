package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// exportLibrary returns a one-shot authoritative read of the whole
// library straight from the stores, bypassing the mirror. Used for
// backups; the ordering matches the live queries.
func (h *Handler) exportLibrary(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.content.List(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	cats, err := h.categories.List(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	settings, err := h.settings.Get(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"exportedAt": time.Now().UTC(),
		"content":    items,
		"categories": cats,
		"settings":   settings,
	})
}
