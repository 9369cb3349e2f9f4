package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sulaymani-library/go-library-backend/internal/auth"
	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
	"github.com/sulaymani-library/go-library-backend/internal/profile/repository"
	"github.com/sulaymani-library/go-library-backend/internal/profile/service"
)

// Handler exposes the signed-in user's favorites, history and display
// name.
type Handler struct {
	svc      *service.Service
	profiles *repository.Repo
}

func New(svc *service.Service, profiles *repository.Repo) *Handler {
	return &Handler{svc: svc, profiles: profiles}
}

func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.svc.Profile(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		h.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

// toggleFavorite flips the favorite state of one item. Signed-out
// callers get a login_required response and nothing is written; the
// client renders that as the login overlay.
func (h *Handler) toggleFavorite(c *gin.Context) {
	added, err := h.svc.ToggleFavorite(c.Request.Context(), auth.UserUID(c), c.Param("id"))
	if err != nil {
		h.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "favorited": added})
}

type historyReq struct {
	ItemID string `json:"item_id"`
}

// recordHistory logs an item open. Signed-out opens record nothing and
// still succeed.
func (h *Handler) recordHistory(c *gin.Context) {
	var req historyReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ItemID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "item_id is required"})
		return
	}

	if err := h.svc.RecordHistory(c.Request.Context(), auth.UserUID(c), req.ItemID); err != nil {
		h.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type updateProfileReq struct {
	DisplayName string `json:"display_name"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.svc.UpdateDisplayName(c.Request.Context(), auth.UserUID(c), req.DisplayName); err != nil {
		h.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) profileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "login_required": true})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	}
}
