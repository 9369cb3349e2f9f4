package http

import "github.com/gin-gonic/gin"

// Register attaches the identity endpoints to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signUp)
	rg.POST("/signin", h.signIn)
}
