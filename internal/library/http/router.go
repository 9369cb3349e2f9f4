package http

import "github.com/gin-gonic/gin"

// Register attaches the public browsing routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/content", h.listContent)
	rg.GET("/content/:id", h.getContent)
	rg.GET("/categories", h.listCategories)
	rg.GET("/categories/:name/groups", h.groupedContent)
	rg.GET("/settings", h.getSettings)
	rg.GET("/stream", h.stream)
}

// RegisterAdmin attaches the write surface. The caller wires the admin
// middleware onto the group before passing it here.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/content", h.createContent)
	rg.PATCH("/content/:id", h.updateContent)
	rg.DELETE("/content/:id", h.deleteContent)
	rg.POST("/categories", h.createCategory)
	rg.DELETE("/categories/:id", h.deleteCategory)
	rg.POST("/categories/:id/subcategories", h.addSubcategory)
	rg.DELETE("/categories/:id/subcategories", h.removeSubcategory)
	rg.PUT("/settings", h.saveSettings)
	rg.GET("/export", h.exportLibrary)
}
