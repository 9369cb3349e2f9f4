package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

func (h *Handler) getSettings(c *gin.Context) {
	snap := h.mirror.Snapshot()
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": snap.State, "settings": snap.Site})
}

// saveSettings merges the posted fields onto the settings/general
// singleton.
func (h *Handler) saveSettings(c *gin.Context) {
	var info domain.SiteInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.settings.Save(c.Request.Context(), info); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
