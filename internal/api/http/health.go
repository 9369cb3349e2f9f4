package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sulaymani-library/go-library-backend/internal/library/cache"
	"github.com/sulaymani-library/go-library-backend/internal/library/sync"
)

type HealthResponse struct {
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Service   string     `json:"service"`
	Version   string     `json:"version"`
	Cache     string     `json:"cache,omitempty"`
	Sync      sync.State `json:"sync"`
}

type HealthHandler struct {
	serviceName string
	version     string
	cache       *cache.FeedCache
	mirror      *sync.Mirror
}

func NewHealthHandler(serviceName, version string, feedCache *cache.FeedCache, mirror *sync.Mirror) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		cache:       feedCache,
		mirror:      mirror,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	cacheStatus := "disabled"
	if h.cache != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.cache.Ping(pingCtx); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Cache:     cacheStatus,
		Sync:      h.mirror.State(),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
