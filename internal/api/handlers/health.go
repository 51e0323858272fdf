package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/logger"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	store   library.Store
	backend string
}

func NewHealthHandler(store library.Store, backend string) *HealthHandler {
	if backend == "" {
		backend = library.BackendMemory
	}
	return &HealthHandler{store: store, backend: backend}
}

// HealthCheck returns the health status of the API and its storage
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storage := gin.H{"backend": h.backend, "status": "ok"}

	if pinger, ok := h.store.(library.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logger.Error("Storage health check failed", err, logger.WithContext(c))
			storage["status"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"storage": storage,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": storage,
	})
}
