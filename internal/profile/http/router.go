package http

import "github.com/gin-gonic/gin"

// Register attaches the profile routes. The group carries OptionalUser
// middleware: the toggle and history contracts distinguish "signed out"
// (login overlay, zero writes) from a hard auth failure, so the decision
// lives in the service rather than the middleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.getProfile)
	rg.PATCH("", h.updateProfile)
	rg.POST("/favorites/:id/toggle", h.toggleFavorite)
	rg.POST("/history", h.recordHistory)
	rg.GET("/stream", h.stream)
}
